package discover

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SMRecover/pkg/models"
)

// 匹配 sourceMappingURL 注释，JS 文件里可能出现多条，规范规定以最后一条为准
var mapCommentRegex = regexp.MustCompile(`(?m)^//[#@]\s*sourceMappingURL=(.*)$`)

// Scripts 按文档顺序从 HTML 中提取同源脚本引用
// 只保留 src 以 / 开头的相对路径；绝对 URL、协议相对 URL、内联脚本
// 都算第三方依赖，不在恢复范围内。.js -> .js.map 是纯文本替换，
// query 里出现的 .js 也会被替换，这是刻意保留的行为
func Scripts(origin string, body string) []models.ScriptRef {
	var refs []models.ScriptRef

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return refs
	}

	doc.Find("script").Each(func(i int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if !exists {
			return
		}
		if !strings.HasPrefix(src, "/") || strings.HasPrefix(src, "//") {
			return
		}
		refs = append(refs, models.ScriptRef{
			Src:       src,
			ScriptURL: origin + src,
			MapURL:    origin + strings.ReplaceAll(src, ".js", ".js.map"),
		})
	})

	return refs
}

// SourceMapComment 提取 JS 文件末尾的 sourceMappingURL 引用，没有则返回空串
func SourceMapComment(body string) string {
	matches := mapCommentRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}
