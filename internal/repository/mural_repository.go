package repository

import (
	"time"

	"amadeus_backend/internal/model"

	"gorm.io/gorm"
)

type MuralRepository struct {
	DB *gorm.DB
}

func NewMuralRepository(db *gorm.DB) *MuralRepository {
	return &MuralRepository{DB: db}
}

func (r *MuralRepository) ListHelpPosts(subjectID uint, from, to time.Time) ([]model.SubjectPost, error) {
	var posts []model.SubjectPost
	err := r.DB.Where("space_id = ? AND action = ?", subjectID, model.PostActionHelp).
		Where("create_date >= ? AND create_date < ?", from, to).
		Find(&posts).Error
	return posts, err
}

func (r *MuralRepository) ListComments(postIDs []uint, from, to time.Time) ([]model.Comment, error) {
	var comments []model.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	err := r.DB.Where("post_id IN ?", postIDs).
		Where("create_date >= ? AND create_date < ?", from, to).
		Find(&comments).Error
	return comments, err
}

// CountVisualizations 学科帖子上各用户的浏览次数
func (r *MuralRepository) CountVisualizations(subjectID uint, userIDs []uint, from, to time.Time) (map[uint]int, error) {
	type row struct {
		UserID uint
		Total  int
	}
	var rows []row
	counts := make(map[uint]int)
	if len(userIDs) == 0 {
		return counts, nil
	}
	err := r.DB.Table("mural_visualizations AS v").
		Select("v.user_id AS user_id, COUNT(*) AS total").
		Joins("JOIN mural_subject_posts AS p ON p.id = v.post_id").
		Where("p.space_id = ? AND v.viewed = ?", subjectID, true).
		Where("v.user_id IN ?", userIDs).
		Where("p.create_date >= ? AND p.create_date < ?", from, to).
		Group("v.user_id").
		Scan(&rows).Error
	for _, r := range rows {
		counts[r.UserID] = r.Total
	}
	return counts, err
}
