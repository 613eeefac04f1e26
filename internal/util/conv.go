package util

import (
	"strconv"
	"strings"
)

// ParseUintList 解析逗号分隔的 ID 列表，忽略非法项
func ParseUintList(s string) []uint {
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseUint(part, 10, 32); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}
