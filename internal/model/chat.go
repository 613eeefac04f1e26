package model

import "time"

// Conversation 两个用户之间的私聊
type Conversation struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserOneID uint `gorm:"index" json:"userOneId"`
	UserTwoID uint `gorm:"index" json:"userTwoId"`
}

func (Conversation) TableName() string {
	return "chat_conversations"
}

// Other 返回会话中另一方
func (c Conversation) Other(userID uint) uint {
	if c.UserOneID == userID {
		return c.UserTwoID
	}
	return c.UserOneID
}

type TalkMessage struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TalkID     uint      `gorm:"index" json:"talkId"`
	UserID     uint      `gorm:"index" json:"userId"`
	SubjectID  *uint     `gorm:"index" json:"subjectId"`
	Text       string    `gorm:"type:text" json:"text"`
	Image      string    `gorm:"size:255" json:"image"`
	CreateDate time.Time `gorm:"autoCreateTime" json:"createDate"`
}

func (TalkMessage) TableName() string {
	return "chat_talk_messages"
}

type ChatVisualization struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uint `gorm:"index" json:"messageId"`
	UserID    uint `gorm:"index" json:"userId"`
	Viewed    bool `json:"viewed"`
}

func (ChatVisualization) TableName() string {
	return "chat_visualizations"
}
