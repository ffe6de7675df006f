// Package web 内嵌的页面模板
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// InterstitialTemplate 中间页模板名
const InterstitialTemplate = "interstitial.html"

// Templates 解析全部内嵌模板, 供 gin 的 SetHTMLTemplate 使用
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
