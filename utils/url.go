package utils

import (
	"fmt"
)

// LinkFormats GIF 的各种分享链接格式
type LinkFormats struct {
	URL      string `json:"url"`
	Share    string `json:"share"`
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
}

// BuildFileURL 文件直链
func BuildFileURL(baseURL, filename string) string {
	return fmt.Sprintf("%s/uploads/%s", baseURL, filename)
}

// BuildShareURL 分享页链接
func BuildShareURL(baseURL, filename string) string {
	return fmt.Sprintf("%s/g/%s", baseURL, filename)
}

// BuildLinkFormats 生成直链、分享链、HTML 嵌入和 Markdown 格式
func BuildLinkFormats(baseURL, filename, title string) LinkFormats {
	fileURL := BuildFileURL(baseURL, filename)
	return LinkFormats{
		URL:      fileURL,
		Share:    BuildShareURL(baseURL, filename),
		HTML:     fmt.Sprintf(`<img src="%s" alt="%s" />`, fileURL, title),
		Markdown: fmt.Sprintf("![%s](%s)", title, fileURL),
	}
}
