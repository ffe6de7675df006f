package handler

import (
	"errors"
	"net/http"
	"time"

	"linkwrap-platform/internal/middleware"
	"linkwrap-platform/internal/model"
	"linkwrap-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// WrapLinkRequest 创建请求
type WrapLinkRequest struct {
	URL            string   `json:"url" binding:"required" example:"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"`
	Platform       string   `json:"platform,omitempty" example:"spotify"`
	CustomAlias    string   `json:"customAlias,omitempty" example:"my-single"`
	ExpiresInHours *float64 `json:"expiresInHours,omitempty" example:"24"`
}

// WrapLinkResponse 创建结果, 不回显原始链接
type WrapLinkResponse struct {
	ShortID      string         `json:"shortId" example:"aB3dE9x"`
	Kind         model.LinkKind `json:"kind" example:"normal"`
	Domain       string         `json:"domain" example:"open.spotify.com"`
	Category     string         `json:"category" example:"spotify"`
	TitleAlias   string         `json:"titleAlias" example:"Spotify"`
	NormalURL    string         `json:"normalUrl" example:"/go/aB3dE9x"`
	SensitiveURL string         `json:"sensitiveUrl" example:"/out/aB3dE9x"`
	CreatedAt    time.Time      `json:"createdAt"`
	ExpiresAt    *time.Time     `json:"expiresAt"`
}

// WrapLink godoc
// @Summary 创建包装链接
// @Description 校验并分类目标链接, 返回跳转地址. 可选 Bearer 令牌用于记录所有者
// @Tags WrappedLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body  body   WrapLinkRequest  true  "目标链接"
// @Success 200 {object} WrapLinkResponse "成功响应"
// @Failure 400 {object} map[string]string "请求无效"
// @Failure 401 {object} map[string]string "令牌无效"
// @Failure 429 {object} map[string]string "请求过于频繁"
// @Failure 500 {object} map[string]string "服务器内部错误"
// @Router /api/wrap-link [post]
func (h *LinkHandler) WrapLink(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")

	var req WrapLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据"})
		return
	}

	link, err := h.service.CreateWrappedLink(c.Request.Context(), service.CreateInput{
		URL:            req.URL,
		UserID:         middleware.UserID(c),
		CustomAlias:    req.CustomAlias,
		Platform:       req.Platform,
		ExpiresInHours: req.ExpiresInHours,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL),
			errors.Is(err, service.ErrInvalidAlias),
			errors.Is(err, service.ErrInvalidPlatform),
			errors.Is(err, service.ErrInvalidOwner),
			errors.Is(err, service.ErrAliasTaken),
			errors.Is(err, service.ErrInvalidExpiry):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建链接失败，请稍后重试"})
		}
		return
	}

	h.metrics.Created(string(link.Kind))
	c.JSON(http.StatusOK, WrapLinkResponse{
		ShortID:      link.ShortID,
		Kind:         link.Kind,
		Domain:       link.Domain,
		Category:     link.Category,
		TitleAlias:   link.TitleAlias,
		NormalURL:    "/go/" + link.ShortID,
		SensitiveURL: "/out/" + link.ShortID,
		CreatedAt:    link.CreatedAt,
		ExpiresAt:    link.ExpiresAt,
	})
}
