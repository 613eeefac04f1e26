package model

// Category 课程分类，协调员拥有分类下所有学科的管理权限
type Category struct {
	BaseModel
	Name         string `gorm:"size:200;not null" json:"name"`
	Slug         string `gorm:"size:255;uniqueIndex" json:"slug"`
	Coordinators []User `gorm:"many2many:category_coordinators" json:"coordinators,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

type Subject struct {
	BaseModel
	CategoryID uint     `gorm:"index" json:"categoryId"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`
	Name       string   `gorm:"size:200;not null" json:"name"`
	Slug       string   `gorm:"size:255;uniqueIndex" json:"slug"`
	Visible    bool     `json:"visible"`
	Professors []User   `gorm:"many2many:subject_professors" json:"professors,omitempty"`
	Students   []User   `gorm:"many2many:subject_students" json:"students,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

type Topic struct {
	BaseModel
	SubjectID  uint    `gorm:"index" json:"subjectId"`
	Subject    Subject `gorm:"foreignKey:SubjectID" json:"subject"`
	Name       string  `gorm:"size:200;not null" json:"name"`
	Slug       string  `gorm:"size:255;uniqueIndex" json:"slug"`
	Visible    bool    `json:"visible"`
	Repository bool    `json:"repository"`
	Order      int     `gorm:"column:order" json:"order"`
}

func (Topic) TableName() string {
	return "topics"
}

type Tag struct {
	BaseModel
	Name string `gorm:"size:100;not null" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}
