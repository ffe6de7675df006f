package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Unlock godoc
// @Summary 中间页确认
// @Description 校验中间页签发的确认令牌后跳转到目标. 预览类爬虫得到空响应
// @Tags Redirect
// @Accept  x-www-form-urlencoded
// @Param id path string true "短码"
// @Param token formData string true "中间页确认令牌"
// @Success 302
// @Success 204 "爬虫"
// @Failure 403 {object} map[string]string "令牌无效"
// @Failure 404 {object} map[string]string
// @Router /api/link/{id} [post]
func (h *LinkHandler) Unlock(c *gin.Context) {
	id := c.Param("id")
	bot := h.detect(c)

	if bot.ShouldBlock {
		h.metrics.Redirect(routeUnlock, "blocked")
		c.Status(http.StatusNoContent)
		return
	}

	if !h.validID(id) {
		h.notFound(c, routeUnlock)
		return
	}

	token := c.PostForm("token")
	if token == "" {
		token = c.GetHeader("X-Unlock-Token")
	}
	if err := h.tokens.ValidateUnlockToken(token, id); err != nil {
		h.metrics.Redirect(routeUnlock, "forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "确认令牌无效或已过期"})
		return
	}

	link, err := h.service.GetWrappedLink(c.Request.Context(), id)
	if err != nil {
		h.lookupFailed(c, routeUnlock, id, err)
		return
	}

	h.service.TrackClick(h.clickEvent(c, link.ShortID, routeUnlock, bot))
	h.metrics.Redirect(routeUnlock, "redirect")
	c.Redirect(http.StatusFound, link.OriginalURL)
}
