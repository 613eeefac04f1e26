package model

// ResourceType 资源子类型，同时也是日志中 resource 字段和 context 中 "<type>_id" 的前缀
type ResourceType string

const (
	ResourcePDFFile       ResourceType = "pdffile"
	ResourceGoals         ResourceType = "goals"
	ResourceLink          ResourceType = "link"
	ResourceFileLink      ResourceType = "filelink"
	ResourceWebConference ResourceType = "webconference"
	ResourceYTVideo       ResourceType = "ytvideo"
	ResourceWebPage       ResourceType = "webpage"
	ResourceQuestionary   ResourceType = "questionary"
)

var ResourceTypeNames = map[ResourceType]string{
	ResourcePDFFile:       "PDF File",
	ResourceGoals:         "Topic Goals",
	ResourceLink:          "Link to Website",
	ResourceFileLink:      "File Link",
	ResourceWebConference: "Web Conference",
	ResourceYTVideo:       "YouTube Video",
	ResourceWebPage:       "WebPage",
	ResourceQuestionary:   "Questionary",
}

// IsTimed 可统计观看时长的资源
func (t ResourceType) IsTimed() bool {
	return t == ResourceYTVideo || t == ResourceWebConference
}

func (t ResourceType) Valid() bool {
	_, ok := ResourceTypeNames[t]
	return ok
}

// Resource 主题下的教学资源
type Resource struct {
	BaseModel
	TopicID     uint         `gorm:"index" json:"topicId"`
	Topic       Topic        `gorm:"foreignKey:TopicID" json:"topic"`
	Name        string       `gorm:"size:200;not null" json:"name"`
	Slug        string       `gorm:"size:255;uniqueIndex" json:"slug"`
	Type        ResourceType `gorm:"size:30;index" json:"type"`
	Visible     bool         `json:"visible"`
	AllStudents bool         `json:"allStudents"`
	ShowWindow  bool         `json:"showWindow"`
	Order       int          `gorm:"column:order" json:"order"`
	Tags        []Tag        `gorm:"many2many:resource_tags" json:"tags,omitempty"`
	Students    []User       `gorm:"many2many:resource_students" json:"students,omitempty"`
}

func (Resource) TableName() string {
	return "resources"
}

func (r Resource) HasStudent(userID uint) bool {
	for _, s := range r.Students {
		if s.ID == userID {
			return true
		}
	}
	return false
}

func (r Resource) HasTag(tagID uint) bool {
	for _, t := range r.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
