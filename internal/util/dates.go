package util

import (
	"strings"
	"time"
)

// ParseDateRange 按固定顺序尝试日期格式，选择第一个能同时解析两端日期的格式。
// 结束日期包含当天，返回的 end 为次日零点（不含）。
func ParseDateRange(initDate, endDate string, formats []string) (time.Time, time.Time, error) {
	initDate = strings.TrimSpace(initDate)
	endDate = strings.TrimSpace(endDate)

	for _, layout := range formats {
		from, err := time.ParseInLocation(layout, initDate, time.Local)
		if err != nil {
			continue
		}
		to, err := time.ParseInLocation(layout, endDate, time.Local)
		if err != nil {
			continue
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		return from, to.AddDate(0, 0, 1), nil
	}
	return time.Time{}, time.Time{}, ErrInvalidDate
}
