package repository

import (
	"amadeus_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository 导出记录，每个用户各保留一份 CSV 与电子表格
type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) UpsertCSV(report *model.ReportCSV) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"csv_data", "object_key", "updated_at"}),
	}).Create(report).Error
}

func (r *ReportRepository) UpsertXLS(report *model.ReportXLS) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"object_key", "updated_at"}),
	}).Create(report).Error
}

func (r *ReportRepository) FindCSV(userID uint) (*model.ReportCSV, error) {
	var report model.ReportCSV
	err := r.DB.Where("user_id = ?", userID).First(&report).Error
	return &report, err
}

func (r *ReportRepository) FindXLS(userID uint) (*model.ReportXLS, error) {
	var report model.ReportXLS
	err := r.DB.Where("user_id = ?", userID).First(&report).Error
	return &report, err
}
