package handler

import (
	"net/http"

	"linkwrap-platform/web"

	"github.com/gin-gonic/gin"
)

// Redirect godoc
// @Summary 短链跳转
// @Description 普通链接直接 302 到目标, 敏感链接 302 到中间页
// @Tags Redirect
// @Param id path string true "短码"
// @Success 302
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /go/{id} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	id := c.Param("id")
	bot := h.detect(c)

	if !h.validID(id) {
		h.notFound(c, routeGo)
		return
	}

	link, err := h.service.GetWrappedLink(c.Request.Context(), id)
	if err != nil {
		h.lookupFailed(c, routeGo, id, err)
		return
	}

	if link.IsSensitive() {
		h.metrics.Redirect(routeGo, "interstitial")
		c.Redirect(http.StatusFound, "/out/"+link.ShortID)
		return
	}

	// HEAD 多来自链接检查和预取, 不计点击
	if c.Request.Method != http.MethodHead {
		h.service.TrackClick(h.clickEvent(c, link.ShortID, routeGo, bot))
	}
	h.metrics.Redirect(routeGo, "redirect")
	c.Redirect(http.StatusFound, link.OriginalURL)
}

// Interstitial godoc
// @Summary 中间页
// @Description 展示目标站点信息, 点击继续后提交确认令牌. 不自动跳转
// @Tags Redirect
// @Produce html
// @Param id path string true "短码"
// @Success 200 {string} string "HTML"
// @Failure 404 {object} map[string]string
// @Router /out/{id} [get]
func (h *LinkHandler) Interstitial(c *gin.Context) {
	id := c.Param("id")
	h.detect(c)

	if !h.validID(id) {
		h.notFound(c, routeOut)
		return
	}

	link, err := h.service.GetWrappedLink(c.Request.Context(), id)
	if err != nil {
		h.lookupFailed(c, routeOut, id, err)
		return
	}

	token, err := h.tokens.GenerateUnlockToken(link.ShortID, h.unlockTTL)
	if err != nil {
		h.lookupFailed(c, routeOut, id, err)
		return
	}

	h.metrics.Redirect(routeOut, "interstitial")
	c.Header("X-Frame-Options", "DENY")
	c.HTML(http.StatusOK, web.InterstitialTemplate, gin.H{
		"TitleAlias": link.TitleAlias,
		"Domain":     link.Domain,
		"Action":     "/api/link/" + link.ShortID,
		"Token":      token,
	})
}
