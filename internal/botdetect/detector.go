// Package botdetect 根据请求头识别爬虫, 纯函数, 不保存状态
package botdetect

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Category 请求来源分类
type Category string

const (
	CategoryHuman         Category = "human"
	CategorySearchCrawler Category = "search_crawler"
	CategorySocialPreview Category = "social_preview"
	CategoryAICrawler     Category = "ai_crawler"
	CategoryAutomation    Category = "automation"
)

// Result 识别结果
type Result struct {
	IsBot       bool     `json:"isBot"`
	ShouldBlock bool     `json:"shouldBlock"`
	Category    Category `json:"category"`
}

// Detector 可替换的识别器
type Detector interface {
	Detect(r *http.Request, path string) Result
}

// Options 在内置特征之外追加的 UA 片段
type Options struct {
	ExtraSearchCrawlers []string
	ExtraSocialPreviews []string
	ExtraAutomation     []string
	// 这些路径前缀上的预览类爬虫会被拦截
	BlockPaths []string
}

var (
	// 链接预览类爬虫, 对敏感接口需要返回空响应.
	// 不收录 Instagram/TikTok 等 App 内置浏览器的标识, 那是真人
	socialPreviewAgents = []string{
		"facebookexternalhit",
		"facebookcatalog",
		"meta-externalagent",
		"meta-externalfetcher",
		"twitterbot",
		"linkedinbot",
		"slackbot",
		"slack-imgproxy",
		"discordbot",
		"telegrambot",
		"whatsapp/",
		"skypeuripreview",
		"pinterestbot",
		"redditbot",
		"embedly",
		"vkshare",
		"bytespider",
		"iframely",
		"google-pagerenderer",
	}

	searchCrawlerAgents = []string{
		"googlebot",
		"applebot",
		"google-inspectiontool",
		"adsbot-google",
		"mediapartners-google",
		"bingbot",
		"bingpreview",
		"yandexbot",
		"baiduspider",
		"duckduckbot",
		"slurp",
		"sogou",
		"exabot",
		"seznambot",
		"petalbot",
		"ahrefsbot",
		"semrushbot",
		"mj12bot",
		"dotbot",
	}

	aiCrawlerAgents = []string{
		"gptbot",
		"chatgpt-user",
		"oai-searchbot",
		"claudebot",
		"claude-web",
		"anthropic-ai",
		"perplexitybot",
		"ccbot",
		"cohere-ai",
		"amazonbot",
		"google-extended",
	}

	automationAgents = []string{
		"curl/",
		"wget/",
		"python-requests",
		"python-urllib",
		"aiohttp",
		"httpx",
		"go-http-client",
		"java/",
		"okhttp",
		"apache-httpclient",
		"libwww-perl",
		"node-fetch",
		"axios/",
		"undici",
		"postmanruntime",
		"insomnia",
		"headlesschrome",
		"phantomjs",
		"puppeteer",
		"playwright",
		"selenium",
		"scrapy",
	}

	// 兜底的通用关键字
	genericBotMarkers = []string{"bot", "crawler", "spider", "crawl", "preview", "fetcher"}
)

// UADetector 基于 User-Agent 及少量请求头的识别器
type UADetector struct {
	social     []string
	search     []string
	ai         []string
	automation []string
	blockPaths []string
}

// New 创建识别器
func New(opts Options) *UADetector {
	blockPaths := opts.BlockPaths
	if len(blockPaths) == 0 {
		blockPaths = []string{"/api/link/"}
	}
	return &UADetector{
		social:     merge(socialPreviewAgents, opts.ExtraSocialPreviews),
		search:     merge(searchCrawlerAgents, opts.ExtraSearchCrawlers),
		ai:         aiCrawlerAgents,
		automation: merge(automationAgents, opts.ExtraAutomation),
		blockPaths: blockPaths,
	}
}

// Detect 对请求分类. 预览类爬虫先于搜索引擎匹配, 因为部分预览 UA 同时包含 "bot"
func (d *UADetector) Detect(r *http.Request, path string) Result {
	ua := strings.ToLower(r.UserAgent())

	category := d.classify(ua, r.Header)
	if category == CategoryHuman {
		return Result{Category: CategoryHuman}
	}

	res := Result{IsBot: true, Category: category}
	if (category == CategorySocialPreview || category == CategoryAICrawler) && d.isBlockPath(path) {
		res.ShouldBlock = true
	}
	return res
}

func (d *UADetector) classify(ua string, h http.Header) Category {
	if ua == "" {
		return CategoryAutomation
	}
	switch {
	case containsAny(ua, d.social):
		return CategorySocialPreview
	case containsAny(ua, d.ai):
		return CategoryAICrawler
	case containsAny(ua, d.search):
		return CategorySearchCrawler
	case containsAny(ua, d.automation):
		return CategoryAutomation
	case containsAny(ua, genericBotMarkers):
		return CategorySearchCrawler
	}

	// 浏览器的链接预取/预览
	if strings.EqualFold(h.Get("Purpose"), "preview") ||
		strings.Contains(strings.ToLower(h.Get("X-Purpose")), "preview") ||
		strings.Contains(strings.ToLower(h.Get("Sec-Purpose")), "prefetch") {
		return CategorySocialPreview
	}
	// 声称是浏览器却没有 Accept-Language 且没有 Accept, 基本来自脚本
	if !strings.Contains(ua, "mozilla/") && h.Get("Accept-Language") == "" && h.Get("Accept") == "" {
		return CategoryAutomation
	}
	return CategoryHuman
}

func (d *UADetector) isBlockPath(path string) bool {
	for _, p := range d.blockPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// BotSafeHeaders 爬虫看到的响应与真人一致, 只补充缓存和索引相关的头, 不改变跳转目标
func BotSafeHeaders(isBot bool) map[string]string {
	if !isBot {
		return map[string]string{}
	}
	return map[string]string{
		"X-Robots-Tag":           "noindex, nofollow, nosnippet, noarchive",
		"Referrer-Policy":        "no-referrer",
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
}

type guarded struct {
	inner  Detector
	logger *zap.SugaredLogger
}

// Guard 识别器 panic 时按真人处理, 不影响跳转
func Guard(d Detector, logger *zap.SugaredLogger) Detector {
	return &guarded{inner: d, logger: logger}
}

func (g *guarded) Detect(r *http.Request, path string) (res Result) {
	defer func() {
		if err := recover(); err != nil {
			g.logger.Errorf("爬虫识别失败, 按真人处理: %v", err)
			res = Result{Category: CategoryHuman}
		}
	}()
	return g.inner.Detect(r, path)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func merge(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, e := range extra {
		out = append(out, strings.ToLower(strings.TrimSpace(e)))
	}
	return out
}
