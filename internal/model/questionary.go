package model

import "time"

// Questionary 问卷资源，主键与对应 Resource 相同
type Questionary struct {
	ResourceID     uint            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Resource       Resource        `gorm:"foreignKey:ResourceID" json:"resource"`
	Presentation   string          `gorm:"type:text" json:"presentation"`
	Specifications []Specification `gorm:"foreignKey:QuestionaryID" json:"specifications,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Questionary) TableName() string {
	return "questionaries"
}

// Specification 抽题规则：从同时拥有全部 Categories 的题目中抽取 NQuestions 道
type Specification struct {
	BaseModel
	QuestionaryID uint  `gorm:"index" json:"questionaryId"`
	NQuestions    int   `json:"nQuestions"`
	Categories    []Tag `gorm:"many2many:specification_categories" json:"categories,omitempty"`
}

func (Specification) TableName() string {
	return "questionary_specifications"
}

func (s Specification) CategoryIDs() []uint {
	ids := make([]uint, 0, len(s.Categories))
	for _, c := range s.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// UserQuest 学生对某问卷的一次作答实例，(student, questionary) 唯一；FinishedAt 只写入一次
type UserQuest struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID     uint         `gorm:"uniqueIndex:idx_userquest_student_questionary" json:"studentId"`
	Student       User         `gorm:"foreignKey:StudentID" json:"-"`
	QuestionaryID uint         `gorm:"uniqueIndex:idx_userquest_student_questionary" json:"questionaryId"`
	DataIni       time.Time    `gorm:"autoCreateTime" json:"dataIni"`
	LastUpdate    time.Time    `json:"lastUpdate"`
	FinishedAt    *time.Time   `json:"finishedAt"`
	Answers       []UserAnswer `gorm:"foreignKey:UserQuestID" json:"answers,omitempty"`
}

func (UserQuest) TableName() string {
	return "user_quests"
}

type UserAnswer struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserQuestID uint         `gorm:"index" json:"userQuestId"`
	QuestionID  uint         `gorm:"index" json:"questionId"`
	Question    Question     `gorm:"foreignKey:QuestionID" json:"question"`
	AnswerID    *uint        `json:"answerId"`
	Answer      *Alternative `gorm:"foreignKey:AnswerID" json:"-"`
	Order       int          `gorm:"column:order" json:"order"`
	IsCorrect   bool         `gorm:"default:false" json:"isCorrect"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

func (a UserAnswer) Answered() bool {
	return a.AnswerID != nil
}
