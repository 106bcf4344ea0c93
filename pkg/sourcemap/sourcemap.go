package sourcemap

import (
	"encoding/json"
	"errors"
	"os"
	"path"
	"strings"
)

// ErrUnsupported 无法识别的 SourceMap 变体
// JSON 损坏、版本不对、结构未知都归到这里，调用方跳过该 map 即可
var ErrUnsupported = errors.New("unsupported sourcemap")

// Entry sources 与 sourcesContent 按序配对的结果，Content 为 nil 表示缺失
type Entry struct {
	Path    string
	Content *string
}

// SourceMap 扁平的 v3 SourceMap，恢复源码只关心 sources 和 sourcesContent
type SourceMap struct {
	Sources        []string
	SourcesContent []*string
}

// rawMap 解码用的中间结构，regular 和 indexed 两种变体共用
// sourcesContent 用 *string 保留 JSON null
type rawMap struct {
	Version        int       `json:"version"`
	SourceRoot     string    `json:"sourceRoot"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
	Sections       []section `json:"sections"`
}

type section struct {
	Map *rawMap `json:"map"`
}

// Decode 解码字节流为扁平 SourceMap
// regular 原样返回；indexed 按 section 顺序展开，缺失的内容尝试从本地磁盘补齐；
// 其余变体一律 ErrUnsupported
func Decode(data []byte) (*SourceMap, error) {
	var raw rawMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrUnsupported
	}
	if raw.Version != 3 {
		return nil, ErrUnsupported
	}

	sm := &SourceMap{}
	switch {
	case len(raw.Sections) > 0:
		if err := flatten(&raw, sm, true); err != nil {
			return nil, ErrUnsupported
		}
	case raw.Sources != nil:
		if err := flatten(&raw, sm, false); err != nil {
			return nil, ErrUnsupported
		}
	default:
		return nil, ErrUnsupported
	}

	return sm, nil
}

// Entries 按序配对 sources 与 sourcesContent，长度不足时以 nil 补齐
func (m *SourceMap) Entries() []Entry {
	entries := make([]Entry, 0, len(m.Sources))
	for i, src := range m.Sources {
		var content *string
		if i < len(m.SourcesContent) {
			content = m.SourcesContent[i]
		}
		entries = append(entries, Entry{Path: src, Content: content})
	}
	return entries
}

// flatten 把 raw 的内容追加到 out；section 可能嵌套 indexed map，递归展开
func flatten(raw *rawMap, out *SourceMap, loadLocal bool) error {
	if len(raw.Sections) > 0 {
		for _, sec := range raw.Sections {
			if sec.Map == nil {
				return errors.New("section without map")
			}
			if err := flatten(sec.Map, out, loadLocal); err != nil {
				return err
			}
		}
		return nil
	}

	if raw.Sources == nil {
		return errors.New("map without sources")
	}

	for i, src := range raw.Sources {
		if raw.SourceRoot != "" {
			src = joinSourceRoot(raw.SourceRoot, src)
		}

		var content *string
		if i < len(raw.SourcesContent) {
			content = raw.SourcesContent[i]
		}
		if content == nil && loadLocal {
			content = loadLocalContent(src)
		}

		out.Sources = append(out.Sources, src)
		out.SourcesContent = append(out.SourcesContent, content)
	}
	return nil
}

func joinSourceRoot(root, src string) string {
	if strings.HasSuffix(root, "/") {
		return root + src
	}
	return root + "/" + src
}

// loadLocalContent 展开 indexed map 时尝试从本地磁盘补齐缺失的内容
// 只接受不带 scheme 的相对路径，拒绝目录穿越
func loadLocalContent(src string) *string {
	if strings.Contains(src, "://") || strings.HasPrefix(src, "/") {
		return nil
	}
	clean := path.Clean(src)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return nil
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}
