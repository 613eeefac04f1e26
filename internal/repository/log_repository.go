package repository

import (
	"time"

	"amadeus_backend/internal/model"

	"gorm.io/gorm"
)

// LogFilter 日志查询条件，空字段不参与过滤
type LogFilter struct {
	Component string
	Action    string
	Resource  string
	UserID    uint
}

// LogRepository 日志只追加，不提供更新与删除
type LogRepository struct {
	DB *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{DB: db}
}

func (r *LogRepository) Create(log *model.Log) error {
	return r.DB.Create(log).Error
}

func (r *LogRepository) List(filter LogFilter, page, limit int) ([]model.Log, int64, error) {
	var logs []model.Log
	var total int64
	query := r.DB.Model(&model.Log{})
	if filter.Component != "" {
		query = query.Where("component = ?", filter.Component)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("datetime desc, id desc").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}

// ListForUsers 返回 [from, to) 区间内指定用户与资源的日志，按时间升序
func (r *LogRepository) ListForUsers(userIDs []uint, resources []string, from, to time.Time) ([]model.Log, error) {
	var logs []model.Log
	if len(userIDs) == 0 {
		return logs, nil
	}
	query := r.DB.Where("user_id IN ?", userIDs).
		Where("datetime >= ? AND datetime < ?", from, to)
	if len(resources) > 0 {
		query = query.Where("resource IN ?", resources)
	}
	err := query.Order("datetime asc, id asc").Find(&logs).Error
	return logs, err
}

// ListByResource 指定组件/资源在区间内的日志
func (r *LogRepository) ListByResource(component, resource string, userIDs []uint, from, to time.Time) ([]model.Log, error) {
	var logs []model.Log
	if len(userIDs) == 0 {
		return logs, nil
	}
	err := r.DB.Where("component = ? AND resource = ?", component, resource).
		Where("user_id IN ?", userIDs).
		Where("datetime >= ? AND datetime < ?", from, to).
		Order("datetime asc, id asc").
		Find(&logs).Error
	return logs, err
}
