package handler

import (
	"net/http"

	"linkwrap-platform/internal/middleware"

	"github.com/gin-gonic/gin"
)

var writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

// RegisterRoutes 注册对外路由. wrapChain 依次作用于创建接口, 通常是限流和可选认证
func RegisterRoutes(router gin.IRouter, h *LinkHandler, wrapChain ...gin.HandlerFunc) {
	router.GET("/health", h.HealthCheck)

	links := router.Group("", middleware.NoIndexHeaders())
	{
		readOnly := middleware.MethodNotAllowed(http.MethodGet, http.MethodHead)
		// 不带短码的形式也走处理器, 保证 404 带上同样的响应头
		for _, prefix := range []struct {
			base   string
			handle gin.HandlerFunc
		}{
			{"/go", h.Redirect},
			{"/out", h.Interstitial},
		} {
			for _, path := range []string{prefix.base, prefix.base + "/", prefix.base + "/:id"} {
				links.GET(path, prefix.handle)
				links.HEAD(path, prefix.handle)
				for _, m := range writeMethods {
					links.Handle(m, path, readOnly)
				}
			}
		}

		postOnly := middleware.MethodNotAllowed(http.MethodPost)
		links.POST("/api/link/:id", h.Unlock)
		for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			links.Handle(m, "/api/link/:id", postOnly)
		}
	}

	api := router.Group("/api")
	{
		postOnly := middleware.MethodNotAllowed(http.MethodPost)
		api.POST("/wrap-link", append(wrapChain, h.WrapLink)...)
		for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			api.Handle(m, "/wrap-link", postOnly)
		}
	}
}
