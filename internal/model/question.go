package model

// Question 题库中的题目，按标签（分类）组织
type Question struct {
	BaseModel
	SubjectID    uint          `gorm:"index" json:"subjectId"`
	Statement    string        `gorm:"type:text" json:"statement"`
	Categories   []Tag         `gorm:"many2many:question_categories" json:"categories,omitempty"`
	Alternatives []Alternative `gorm:"foreignKey:QuestionID" json:"alternatives,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// HasAllCategories 题目标签是否包含全部给定标签
func (q Question) HasAllCategories(tagIDs []uint) bool {
	own := make(map[uint]struct{}, len(q.Categories))
	for _, c := range q.Categories {
		own[c.ID] = struct{}{}
	}
	for _, id := range tagIDs {
		if _, ok := own[id]; !ok {
			return false
		}
	}
	return true
}

type Alternative struct {
	BaseModel
	QuestionID uint   `gorm:"index" json:"questionId"`
	Content    string `gorm:"type:text" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (Alternative) TableName() string {
	return "alternatives"
}
