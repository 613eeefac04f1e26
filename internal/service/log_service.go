package service

import (
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/repository"
	"amadeus_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type logStore interface {
	Create(log *model.Log) error
	List(filter repository.LogFilter, page, limit int) ([]model.Log, int64, error)
}

// LogService 用户行为日志，只追加
type LogService struct {
	Repo logStore
}

func NewLogService(repo logStore) *LogService {
	return &LogService{Repo: repo}
}

// Create 写入一条日志；失败只记录告警，不影响业务请求
func (s *LogService) Create(user *model.User, component, action, resource string, context map[string]interface{}) {
	if user == nil {
		return
	}
	entry := &model.Log{
		User:      user.DisplayName(),
		UserID:    user.ID,
		UserEmail: user.Email,
		Component: component,
		Action:    action,
		Resource:  resource,
		Context:   datatypes.JSONMap(context),
	}
	if err := s.Repo.Create(entry); err != nil {
		logger.Log.Warn("写入行为日志失败",
			zap.Uint("userID", user.ID),
			zap.String("component", component),
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}

// NormalizePage 页码从 1 开始，每页 1 到 100 条，默认 20
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func (s *LogService) List(filter repository.LogFilter, page, limit int) ([]model.Log, int64, error) {
	page, limit = NormalizePage(page, limit)
	return s.Repo.List(filter, page, limit)
}
