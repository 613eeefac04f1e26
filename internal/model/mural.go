package model

import "time"

const (
	PostActionComment = "comment"
	PostActionHelp    = "help"
)

// SubjectPost 学科讨论墙帖子
type SubjectPost struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index" json:"userId"`
	SpaceID    uint      `gorm:"index" json:"spaceId"`
	Action     string    `gorm:"size:20" json:"action"`
	Post       string    `gorm:"type:text" json:"post"`
	CreateDate time.Time `gorm:"index;autoCreateTime" json:"createDate"`
}

func (SubjectPost) TableName() string {
	return "mural_subject_posts"
}

type Comment struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID     uint      `gorm:"index" json:"postId"`
	UserID     uint      `gorm:"index" json:"userId"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreateDate time.Time `gorm:"index;autoCreateTime" json:"createDate"`
}

func (Comment) TableName() string {
	return "mural_comments"
}

type MuralVisualization struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID uint `gorm:"index" json:"postId"`
	UserID uint `gorm:"index" json:"userId"`
	Viewed bool `json:"viewed"`
}

func (MuralVisualization) TableName() string {
	return "mural_visualizations"
}
