package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"linkwrap-platform/internal/botdetect"
	"linkwrap-platform/internal/clicks"
	"linkwrap-platform/internal/metrics"
	"linkwrap-platform/internal/service"
	auth "linkwrap-platform/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	routeGo     = "go"
	routeOut    = "out"
	routeUnlock = "unlock"

	defaultMaxShortIDLength = 20
	defaultUnlockTTL        = 10 * time.Minute
	// 点击记录里的 UA 和 Referer 截断长度
	maxHeaderValueLength = 512
)

// Options 处理器依赖
type Options struct {
	Service     *service.LinkService
	Detector    botdetect.Detector
	Tokens      *auth.TokenManager
	Metrics     *metrics.Metrics
	Logger      *zap.SugaredLogger
	MaxIDLength int
	UnlockTTL   time.Duration
}

// LinkHandler 处理器
type LinkHandler struct {
	service     *service.LinkService
	detector    botdetect.Detector
	tokens      *auth.TokenManager
	metrics     *metrics.Metrics
	logger      *zap.SugaredLogger
	maxIDLength int
	unlockTTL   time.Duration
}

// NewLinkHandler 创建处理器实例
func NewLinkHandler(opts Options) *LinkHandler {
	h := &LinkHandler{
		service:     opts.Service,
		detector:    opts.Detector,
		tokens:      opts.Tokens,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		maxIDLength: opts.MaxIDLength,
		unlockTTL:   opts.UnlockTTL,
	}
	if h.logger == nil {
		h.logger = zap.NewNop().Sugar()
	}
	h.logger = h.logger.Named("handler")
	if h.detector == nil {
		h.detector = botdetect.New(botdetect.Options{})
	}
	h.detector = botdetect.Guard(h.detector, h.logger)
	if h.maxIDLength <= 0 {
		h.maxIDLength = defaultMaxShortIDLength
	}
	if h.unlockTTL <= 0 {
		h.unlockTTL = defaultUnlockTTL
	}
	return h
}

// HealthCheck godoc
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *LinkHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		h.logger.Errorf("健康检查失败: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "timestamp": time.Now()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// detect 识别爬虫并写入对应的响应头
func (h *LinkHandler) detect(c *gin.Context) botdetect.Result {
	res := h.detector.Detect(c.Request, c.Request.URL.Path)
	for k, v := range botdetect.BotSafeHeaders(res.IsBot) {
		c.Header(k, v)
	}
	if res.IsBot {
		h.metrics.Bot(string(res.Category), res.ShouldBlock)
	}
	return res
}

func (h *LinkHandler) validID(id string) bool {
	return id != "" && len(id) <= h.maxIDLength
}

func (h *LinkHandler) notFound(c *gin.Context, route string) {
	h.metrics.Redirect(route, "not_found")
	c.JSON(http.StatusNotFound, gin.H{"error": "链接不存在或已过期"})
}

// lookupFailed 查询失败时的统一响应, 500 不暴露任何链接信息
func (h *LinkHandler) lookupFailed(c *gin.Context, route, id string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		h.notFound(c, route)
		return
	}
	h.logger.Errorf("查询短链失败 %s: %v", id, err)
	h.metrics.Redirect(route, "error")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
}

func (h *LinkHandler) clickEvent(c *gin.Context, shortID, route string, bot botdetect.Result) clicks.Event {
	return clicks.Event{
		ShortID:     shortID,
		Route:       route,
		IsBot:       bot.IsBot,
		BotCategory: string(bot.Category),
		UserAgent:   truncate(c.Request.UserAgent(), maxHeaderValueLength),
		Referer:     truncate(c.Request.Referer(), maxHeaderValueLength),
		At:          time.Now().UTC(),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
