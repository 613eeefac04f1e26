package util

import (
	"regexp"

	"github.com/gosimple/slug"
)

// 与历史数据兼容，允许大写字母与下划线
var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Slugify 音译为 ASCII 后转为小写连字符形式
func Slugify(s string) string {
	if out := slug.Make(s); out != "" {
		return out
	}
	return "resource"
}

func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
