package repository

import (
	"amadeus_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository 题库
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) ListBySubject(subjectID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Categories").
		Where("subject_id = ?", subjectID).
		Order("id asc").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountBySubject(subjectID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("subject_id = ?", subjectID).Count(&count).Error
	return count, err
}

// CountWithAllTags 同时拥有全部给定标签的题目数量
func (r *QuestionRepository) CountWithAllTags(tagIDs []uint) (int64, error) {
	var count int64
	if len(tagIDs) == 0 {
		return 0, nil
	}
	sub := r.DB.Table("question_categories").
		Select("question_id").
		Where("tag_id IN ?", tagIDs).
		Group("question_id").
		Having("COUNT(DISTINCT tag_id) = ?", len(tagIDs))
	err := r.DB.Table("(?) AS q", sub).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) FindAlternative(id uint) (*model.Alternative, error) {
	var alt model.Alternative
	err := r.DB.First(&alt, id).Error
	return &alt, err
}
