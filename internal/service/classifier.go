package service

import (
	"net/netip"
	"net/url"
	"strings"

	"linkwrap-platform/internal/model"
)

// 音乐平台及主流社交网站, 可以直接跳转
var defaultNormalDomains = []string{
	"spotify.com", "spotify.link", "apple.com", "music.apple.com", "itunes.apple.com",
	"youtube.com", "youtu.be", "music.youtube.com", "soundcloud.com", "bandcamp.com",
	"tidal.com", "deezer.com", "deezer.page.link", "music.amazon.com", "pandora.com",
	"audiomack.com", "napster.com", "qobuz.com", "shazam.com", "beatport.com",
	"instagram.com", "tiktok.com", "twitter.com", "x.com", "facebook.com", "threads.net",
	"twitch.tv", "discord.gg", "discord.com", "snapchat.com", "linkedin.com",
	"venmo.com", "paypal.me", "cash.app", "bandsintown.com", "songkick.com",
	"ticketmaster.com", "eventbrite.com", "genius.com", "linktr.ee", "jov.ie",
}

// 必须经过中间页: 成人/订阅平台以及会隐藏最终目标的短链服务
var defaultSensitiveDomains = []string{
	"onlyfans.com", "fansly.com", "fanvue.com", "fansone.com", "justfor.fans",
	"manyvids.com", "chaturbate.com", "pornhub.com", "xvideos.com",
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd", "buff.ly",
	"rebrand.ly", "cutt.ly", "shorturl.at", "tiny.cc", "rb.gy", "lnkd.in",
}

// 这些参数名很可能携带二次跳转目标
var redirectParams = map[string]bool{
	"url": true, "redirect": true, "redirect_uri": true, "redirect_url": true,
	"next": true, "target": true, "dest": true, "destination": true,
	"continue": true, "u": true, "out": true, "goto": true, "return": true,
}

// 主机名到平台分类
var platformHosts = map[string]string{
	"spotify.com":       "spotify",
	"spotify.link":      "spotify",
	"music.apple.com":   "apple_music",
	"itunes.apple.com":  "apple_music",
	"youtube.com":       "youtube",
	"youtu.be":          "youtube",
	"music.youtube.com": "youtube_music",
	"soundcloud.com":    "soundcloud",
	"bandcamp.com":      "bandcamp",
	"tidal.com":         "tidal",
	"deezer.com":        "deezer",
	"music.amazon.com":  "amazon_music",
	"instagram.com":     "instagram",
	"tiktok.com":        "tiktok",
	"twitter.com":       "twitter",
	"x.com":             "twitter",
	"facebook.com":      "facebook",
	"twitch.tv":         "twitch",
	"venmo.com":         "venmo",
	"paypal.me":         "paypal",
	"cash.app":          "cashapp",
	"onlyfans.com":      "onlyfans",
	"fansly.com":        "fansly",
}

// 平台显示名称, 用于中间页标题
var platformTitles = map[string]string{
	"spotify":       "Spotify",
	"apple_music":   "Apple Music",
	"youtube":       "YouTube",
	"youtube_music": "YouTube Music",
	"soundcloud":    "SoundCloud",
	"bandcamp":      "Bandcamp",
	"tidal":         "TIDAL",
	"deezer":        "Deezer",
	"amazon_music":  "Amazon Music",
	"instagram":     "Instagram",
	"tiktok":        "TikTok",
	"twitter":       "X",
	"facebook":      "Facebook",
	"twitch":        "Twitch",
	"venmo":         "Venmo",
	"paypal":        "PayPal",
	"cashapp":       "Cash App",
}

// Classifier 决定链接类别. 规则按顺序匹配, 无法判定时归为 sensitive
type Classifier struct {
	normal    []string
	sensitive []string
}

// NewClassifier extraNormal/extraSensitive 追加到内置名单
func NewClassifier(extraNormal, extraSensitive []string) *Classifier {
	return &Classifier{
		normal:    normalizeDomains(defaultNormalDomains, extraNormal),
		sensitive: normalizeDomains(defaultSensitiveDomains, extraSensitive),
	}
}

// Classify 返回链接类别
func (c *Classifier) Classify(rawURL string) model.LinkKind {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.KindSensitive
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return model.KindSensitive
	}

	host := strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
	if host == "" {
		return model.KindSensitive
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return model.KindSensitive
	}
	if matchDomain(host, c.sensitive) {
		return model.KindSensitive
	}
	if hasRedirectChain(parsed.Query()) {
		return model.KindSensitive
	}
	if matchDomain(host, c.normal) {
		return model.KindNormal
	}
	return model.KindSensitive
}

// Category 调用方给出的平台优先, 其次按主机名推断
func Category(platform, host string) string {
	if p := strings.ToLower(strings.TrimSpace(platform)); p != "" {
		return p
	}
	for h := host; h != ""; h = parentDomain(h) {
		if name, ok := platformHosts[h]; ok {
			return name
		}
	}
	return "other"
}

// TitleAlias 中间页展示的标题
func TitleAlias(category, host string) string {
	if title, ok := platformTitles[category]; ok {
		return title
	}
	if host != "" {
		return host
	}
	return "External link"
}

func hasRedirectChain(q url.Values) bool {
	for key, values := range q {
		for _, v := range values {
			if v == "" {
				continue
			}
			if redirectParams[strings.ToLower(key)] {
				return true
			}
			if u, err := url.Parse(v); err == nil && u.IsAbs() && u.Host != "" {
				return true
			}
		}
	}
	return false
}

// matchDomain 主机名等于名单中的域名或是其子域名
func matchDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func parentDomain(host string) string {
	idx := strings.Index(host, ".")
	if idx < 0 {
		return ""
	}
	rest := host[idx+1:]
	if !strings.Contains(rest, ".") {
		return ""
	}
	return rest
}

func normalizeDomains(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, d := range extra {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
