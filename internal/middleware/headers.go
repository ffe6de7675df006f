package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// redirectHeaders 跳转类接口的所有响应都必须带上, 包括 404
var redirectHeaders = map[string]string{
	"Cache-Control":          "no-cache, no-store, must-revalidate",
	"Pragma":                 "no-cache",
	"Expires":                "0",
	"X-Robots-Tag":           "noindex, nofollow, nosnippet, noarchive",
	"Referrer-Policy":        "no-referrer",
	"X-Content-Type-Options": "nosniff",
}

// NoIndexHeaders 禁止缓存与索引
func NoIndexHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range redirectHeaders {
			c.Header(k, v)
		}
		c.Next()
	}
}

// MethodNotAllowed 返回 405 并声明允许的方法
func MethodNotAllowed(allowed ...string) gin.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": "不支持的请求方法"})
	}
}
