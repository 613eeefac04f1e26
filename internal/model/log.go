package model

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Log 用户行为审计日志，只追加不修改
type Log struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	User      string            `gorm:"size:255" json:"user"`
	UserID    uint              `gorm:"index" json:"userId"`
	UserEmail string            `gorm:"size:100;index" json:"userEmail"`
	Component string            `gorm:"size:100;index" json:"component"`
	Action    string            `gorm:"size:100;index" json:"action"`
	Resource  string            `gorm:"size:100;index" json:"resource"`
	Context   datatypes.JSONMap `gorm:"type:json" json:"context"`
	Datetime  time.Time         `gorm:"index;autoCreateTime" json:"datetime"`
}

func (Log) TableName() string {
	return "logs"
}

// ContextInt 读取 context 中的整数值，兼容 JSON 数字与字符串
func (l Log) ContextInt(key string) (int64, bool) {
	v, ok := l.Context[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		i, err := strconv.ParseInt(fmt.Sprint(n), 10, 64)
		return i, err == nil
	}
}

// ContextMatches context 中每个键都等于给定的 ID
func (l Log) ContextMatches(want map[string]uint) bool {
	for k, id := range want {
		v, ok := l.ContextInt(k)
		if !ok || v != int64(id) {
			return false
		}
	}
	return true
}
