package botdetect

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

func newRequest(ua string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/go/abc", nil)
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestDetect_Categories(t *testing.T) {
	d := New(Options{})

	tests := []struct {
		name      string
		ua        string
		headers   map[string]string
		path      string
		want      Category
		wantBot   bool
		wantBlock bool
	}{
		{"chrome", chromeUA, map[string]string{"Accept-Language": "en-US"}, "/go/abc", CategoryHuman, false, false},
		{"instagram in-app browser", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Instagram 300.0", nil, "/go/abc", CategoryHuman, false, false},
		{"googlebot on redirect", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", nil, "/go/abc", CategorySearchCrawler, true, false},
		{"googlebot on unlock", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", nil, "/api/link/abc", CategorySearchCrawler, true, false},
		{"facebook on redirect", "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)", nil, "/go/abc", CategorySocialPreview, true, false},
		{"facebook on unlock", "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)", nil, "/api/link/abc", CategorySocialPreview, true, true},
		{"twitterbot", "Twitterbot/1.0", nil, "/out/abc", CategorySocialPreview, true, false},
		{"gptbot on unlock", "Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko; compatible; GPTBot/1.2)", nil, "/api/link/abc", CategoryAICrawler, true, true},
		{"curl", "curl/8.4.0", nil, "/go/abc", CategoryAutomation, true, false},
		{"empty ua", "", nil, "/go/abc", CategoryAutomation, true, false},
		{"generic spider", "SomeSpider/3.0", nil, "/go/abc", CategorySearchCrawler, true, false},
		{"browser preview", chromeUA, map[string]string{"Purpose": "preview"}, "/go/abc", CategorySocialPreview, true, false},
		{"prefetch on unlock", chromeUA, map[string]string{"Sec-Purpose": "prefetch;prerender"}, "/api/link/abc", CategorySocialPreview, true, true},
		{"headerless script", "MyUploader 1.0", nil, "/go/abc", CategoryAutomation, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Detect(newRequest(tt.ua, tt.headers), tt.path)
			assert.Equal(t, tt.want, res.Category)
			assert.Equal(t, tt.wantBot, res.IsBot)
			assert.Equal(t, tt.wantBlock, res.ShouldBlock)
		})
	}
}

func TestDetect_ExtraSignatures(t *testing.T) {
	d := New(Options{ExtraSocialPreviews: []string{" MyPreviewer "}, BlockPaths: []string{"/secret/"}})

	res := d.Detect(newRequest("MyPreviewer/2.0", nil), "/secret/x")
	assert.Equal(t, CategorySocialPreview, res.Category)
	assert.True(t, res.ShouldBlock)

	res = d.Detect(newRequest("facebookexternalhit/1.1", nil), "/api/link/abc")
	assert.False(t, res.ShouldBlock, "自定义拦截路径后默认路径不再拦截")
}

func TestBotSafeHeaders(t *testing.T) {
	assert.Empty(t, BotSafeHeaders(false))

	h := BotSafeHeaders(true)
	assert.Equal(t, "noindex, nofollow, nosnippet, noarchive", h["X-Robots-Tag"])
	assert.Equal(t, "no-referrer", h["Referrer-Policy"])
	assert.NotContains(t, h, "Location")
	assert.NotContains(t, h, "Cache-Control")
}

type panicDetector struct{}

func (panicDetector) Detect(*http.Request, string) Result { panic("boom") }

func TestGuard_FailsOpen(t *testing.T) {
	d := Guard(panicDetector{}, zap.NewNop().Sugar())
	res := d.Detect(newRequest(chromeUA, nil), "/go/abc")
	assert.Equal(t, Result{Category: CategoryHuman}, res)
}
