package repository

import (
	"amadeus_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseRepository 学科、主题与资源的只读查询
type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) withSubject(prefix string) *gorm.DB {
	return r.DB.
		Preload(prefix + "Category.Coordinators").
		Preload(prefix + "Professors").
		Preload(prefix + "Students", func(db *gorm.DB) *gorm.DB {
			return db.Order("social_name, username")
		})
}

func (r *CourseRepository) FindSubjectByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.withSubject("").First(&subject, id).Error
	return &subject, err
}

func (r *CourseRepository) FindTopicBySlug(slug string) (*model.Topic, error) {
	var topic model.Topic
	err := r.withSubject("Subject.").Where("slug = ?", slug).First(&topic).Error
	return &topic, err
}

func (r *CourseRepository) FindTopicByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.First(&topic, id).Error
	return &topic, err
}

func (r *CourseRepository) ListTopicsBySubject(subjectID uint) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("subject_id = ?", subjectID).Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("id asc").Find(&topics).Error
	return topics, err
}

func (r *CourseRepository) CountResourcesInTopic(topicID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Resource{}).Where("topic_id = ?", topicID).Count(&count).Error
	return count, err
}

// ListResources 按主题和类型列出资源，携带标签
func (r *CourseRepository) ListResources(topicIDs []uint, resourceType model.ResourceType) ([]model.Resource, error) {
	var resources []model.Resource
	if len(topicIDs) == 0 {
		return resources, nil
	}
	err := r.DB.Preload("Tags").
		Where("topic_id IN ? AND type = ?", topicIDs, resourceType).
		Order("id asc").
		Find(&resources).Error
	return resources, err
}

func (r *CourseRepository) ListResourceTypes(topicIDs []uint) ([]model.ResourceType, error) {
	var types []model.ResourceType
	if len(topicIDs) == 0 {
		return types, nil
	}
	err := r.DB.Model(&model.Resource{}).
		Where("topic_id IN ?", topicIDs).
		Distinct().
		Order("type").
		Pluck("type", &types).Error
	return types, err
}

// ListTagsForType 某类资源上出现过的非空标签
func (r *CourseRepository) ListTagsForType(topicIDs []uint, resourceType model.ResourceType) ([]model.Tag, error) {
	var tags []model.Tag
	if len(topicIDs) == 0 {
		return tags, nil
	}
	err := r.DB.Model(&model.Tag{}).
		Joins("JOIN resource_tags rt ON rt.tag_id = tags.id").
		Joins("JOIN resources r ON r.id = rt.resource_id").
		Where("r.topic_id IN ? AND r.type = ? AND r.deleted_at IS NULL", topicIDs, resourceType).
		Where("tags.name <> ''").
		Distinct("tags.*").
		Order("tags.name").
		Find(&tags).Error
	return tags, err
}

func (r *CourseRepository) FindTagsByIDs(ids []uint) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}
