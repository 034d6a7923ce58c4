package util

import (
	"regexp"
	"strconv"
	"strings"
)

var slugInvalidRegex = regexp.MustCompile(`[^a-z0-9-]+`)
var slugDashRegex = regexp.MustCompile(`-{2,}`)

// Slugify 将名称规整为 URL 友好的 slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugInvalidRegex.ReplaceAllString(slug, "")
	slug = slugDashRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func StrToUint64(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrUint64 用于将 uint64 转换为 *uint64
func PtrUint64(i uint64) *uint64 {
	return &i
}

func PtrStr(s string) *string {
	return &s
}
