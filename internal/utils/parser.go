package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reYear  = regexp.MustCompile(`\d{4}`)
	likeEsc = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// SplitList 按逗号拆分，去掉首尾空白并丢弃空项
func SplitList(s string) []string {
	return splitTrim(s, ",")
}

// SplitSlash 按 "/" 拆分（豆瓣信息栏格式）
func SplitSlash(s string) []string {
	return splitTrim(s, "/")
}

func splitTrim(s, sep string) []string {
	res := []string{}
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// EscapeLike 转义 LIKE 通配符，使输入按字面匹配
func EscapeLike(s string) string {
	return likeEsc.Replace(s)
}

// FirstYear 提取第一个四位数字，没有则返回 0
func FirstYear(s string) int {
	y, _ := strconv.Atoi(reYear.FindString(s))
	return y
}

// Digits 去掉所有非数字字符后解析，没有数字返回 0
func Digits(s string) int {
	n, _ := strconv.Atoi(strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s))
	return n
}

// PositiveInt 解析正整数，非法或小于 1 时返回默认值
func PositiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// TotalPages 总页数，向上取整
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
