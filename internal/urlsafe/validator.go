package urlsafe

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

const (
	// MaxURLLength 目标链接的最大长度
	MaxURLLength = 2048
	// MaxHostLength DNS 主机名上限
	MaxHostLength = 253
)

var (
	ErrEmptyURL         = errors.New("url is required")
	ErrInvalidURLFormat = errors.New("invalid url format")
	ErrUnsafeProtocol   = errors.New("url protocol not allowed")
	ErrURLTooLong       = errors.New("url exceeds maximum length")
	ErrInvalidAlias     = errors.New("alias must be 3-20 characters of letters, digits, '-' or '_'")
)

var blockedProtocols = map[string]bool{
	"javascript": true,
	"data":       true,
	"file":       true,
	"vbscript":   true,
	"about":      true,
	"blob":       true,
}

var allowedProtocols = map[string]bool{
	"http":  true,
	"https": true,
}

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// IsValidURL 判断是否为可以包装的绝对 http(s) 链接
func IsValidURL(candidate string) bool {
	return ValidateURL(candidate) == nil
}

// ValidateURL 校验目标链接, 返回具体的错误类型
func ValidateURL(candidate string) error {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ErrEmptyURL
	}
	if len(candidate) > MaxURLLength {
		return ErrURLTooLong
	}
	// 前后空白或控制字符都视为格式错误, 避免存储与跳转时出现歧义
	if trimmed != candidate || strings.ContainsAny(candidate, " \t\r\n") {
		return ErrInvalidURLFormat
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return ErrInvalidURLFormat
	}

	scheme := strings.ToLower(parsed.Scheme)
	if blockedProtocols[scheme] {
		return ErrUnsafeProtocol
	}
	if !allowedProtocols[scheme] {
		return ErrInvalidURLFormat
	}
	if parsed.Hostname() == "" || parsed.Opaque != "" || len(parsed.Hostname()) > MaxHostLength {
		return ErrInvalidURLFormat
	}
	return nil
}

// ValidateAlias 校验自定义短码
func ValidateAlias(alias string) error {
	if !aliasPattern.MatchString(alias) {
		return ErrInvalidAlias
	}
	return nil
}

// Host 返回小写的主机名, 去掉 www. 前缀
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}
