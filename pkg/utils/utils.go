package utils

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// ResolveMapRef 解析 sourceMappingURL 注释中的引用，基于脚本自身的 URL
// 只接受相对引用；绝对 URL 和协议相对 URL 视为跨域，直接丢弃
func ResolveMapRef(scriptURL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ""
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") {
		return ""
	}

	base, err := url.Parse(scriptURL)
	if err != nil {
		return ""
	}
	resolved, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return resolved.String()
}

// DecodeDataURI 解码内联在 data: URI 里的 SourceMap 内容
// 支持 ;base64 和百分号编码两种载荷
func DecodeDataURI(ref string) ([]byte, bool) {
	if !strings.HasPrefix(ref, "data:") {
		return nil, false
	}
	idx := strings.Index(ref, ",")
	if idx < 0 {
		return nil, false
	}

	meta, payload := ref[len("data:"):idx], ref[idx+1:]
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, false
		}
		return data, true
	}

	unescaped, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, false
	}
	return []byte(unescaped), true
}
