package repository

import (
	"errors"
	"time"

	"amadeus_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// FindOrCreateConversation 两人之间只维护一个会话，成员顺序无关
func (r *ChatRepository) FindOrCreateConversation(userA, userB uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.
		Where("(user_one_id = ? AND user_two_id = ?) OR (user_one_id = ? AND user_two_id = ?)", userA, userB, userB, userA).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	conv = model.Conversation{UserOneID: userA, UserTwoID: userB}
	if err := r.DB.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateMessage 写入消息并为接收者记录一条未读
func (r *ChatRepository) CreateMessage(msg *model.TalkMessage, recipientID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Create(&model.ChatVisualization{MessageID: msg.ID, UserID: recipientID, Viewed: false}).Error
	})
}

// SubjectMessage 学科内消息及会话双方
type SubjectMessage struct {
	model.TalkMessage
	UserOneID uint
	UserTwoID uint
}

func (r *ChatRepository) ListSubjectMessages(subjectID uint, from, to time.Time) ([]SubjectMessage, error) {
	var msgs []SubjectMessage
	err := r.DB.Table("chat_talk_messages AS m").
		Select("m.*, c.user_one_id, c.user_two_id").
		Joins("JOIN chat_conversations AS c ON c.id = m.talk_id").
		Where("m.subject_id = ?", subjectID).
		Where("m.create_date >= ? AND m.create_date < ?", from, to).
		Order("m.create_date asc").
		Scan(&msgs).Error
	return msgs, err
}
