package models

// MapReport 的处理状态
const (
	StateDecoded     = "decoded"
	StateUnsupported = "unsupported"
)

// ScriptRef 页面中发现的同源脚本引用
type ScriptRef struct {
	Src       string `json:"src"`        // HTML 中的原始 src 属性 (以 / 开头)
	ScriptURL string `json:"script_url"` // origin 拼接后的脚本绝对 URL
	MapURL    string `json:"map_url"`    // .js -> .js.map 替换后的候选地址
}

// MapArtifact 成功下载的 SourceMap 原始内容
type MapArtifact struct {
	URL  string
	Body []byte
}

// MapReport 单个 SourceMap 的处理结果
type MapReport struct {
	URL     string `json:"url"`
	State   string `json:"state"`
	Sources int    `json:"sources"`
	Written int    `json:"written"`
	Bytes   int64  `json:"bytes"`
}

// RunStats 单次恢复运行的统计
type RunStats struct {
	Scripts      int    `json:"scripts"`
	MapsFetched  int    `json:"maps_fetched"`
	MapsDecoded  int    `json:"maps_decoded"`
	Unsupported  int    `json:"unsupported"`
	FilesWritten int    `json:"files_written"`
	BytesWritten int64  `json:"bytes_written"`
	Duration     string `json:"duration"`
	StartTime    string `json:"start_time"`
}
