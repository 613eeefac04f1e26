package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Username   string    `gorm:"size:100;not null" json:"username"`
	Email      string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	SocialName string    `gorm:"size:100" json:"socialName"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	ImageURL   string    `gorm:"size:255" json:"imageUrl"`
	IsStaff    bool      `gorm:"default:false" json:"isStaff"`
	LastLogin  time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName 优先使用社交名
func (u User) DisplayName() string {
	if u.SocialName != "" {
		return u.SocialName
	}
	return u.Username
}
