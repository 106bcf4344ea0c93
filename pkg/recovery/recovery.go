package recovery

import (
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"SMRecover/pkg/discover"
	"SMRecover/pkg/fetcher"
	"SMRecover/pkg/models"
	"SMRecover/pkg/sourcemap"
	"SMRecover/pkg/ui"
	"SMRecover/pkg/utils"
	"SMRecover/pkg/writer"
)

// Recoverer SourceMap 恢复管道
// 串行驱动：抓页面 -> 找脚本 -> 下 map -> 解码 -> 落盘
// 尽力而为，单个资源失败只记录日志，不影响兄弟资源
type Recoverer struct {
	client *fetcher.Client
	writer *writer.Writer

	Reports    []*models.MapReport
	OnProgress func(done, total int, url string)

	scripts     int
	decoded     int
	unsupported int
	written     int
	bytes       int64
	startTime   time.Time
}

// NewRecoverer 创建恢复管道，输出根目录固定为 ./out
func NewRecoverer() (*Recoverer, error) {
	return &Recoverer{
		client: fetcher.New(),
		writer: writer.New("./out"),
	}, nil
}

// SetOutRoot 覆盖输出根目录
func (r *Recoverer) SetOutRoot(root string) {
	r.writer = writer.New(root)
}

// SetUserAgent 覆盖 User-Agent
func (r *Recoverer) SetUserAgent(ua string) {
	r.client.UserAgent = ua
}

// Stats 获取本次运行的统计
func (r *Recoverer) Stats() models.RunStats {
	stats := models.RunStats{
		Scripts:      r.scripts,
		MapsFetched:  len(r.Reports),
		MapsDecoded:  r.decoded,
		Unsupported:  r.unsupported,
		FilesWritten: r.written,
		BytesWritten: r.bytes,
	}
	if !r.startTime.IsZero() {
		stats.Duration = time.Since(r.startTime).Round(time.Millisecond).String()
		stats.StartTime = r.startTime.Format("2006-01-02 15:04:05")
	}
	return stats
}

// Recover 对单个 origin 执行完整恢复流程
// 入口页拿不到、一个 sourcemap 都没有，都属于干净终态，不算错误
func (r *Recoverer) Recover(origin string) {
	r.startTime = time.Now()

	ui.PrintInfo("attempting to find sourcemaps for %s", ui.Bold(origin))

	body, ok := r.fetchPage(origin)
	if !ok {
		return
	}

	refs := discover.Scripts(origin, body)
	r.scripts = len(refs)
	ui.PrintInfo("found %d relative javascript files", len(refs))

	artifacts := r.fetchMaps(refs)
	if len(artifacts) == 0 {
		// 唯一走 stdout 的终态消息
		fmt.Printf("no sourcemaps found for %d javascript files. exiting\n", len(refs))
		return
	}
	ui.PrintSuccess("found %d/%d sourcemaps for javascript files", len(artifacts), len(refs))

	for _, art := range artifacts {
		r.processMap(origin, art)
	}
}

// fetchPage 抓取入口页面，非 2xx 或网络错误时 ok=false
func (r *Recoverer) fetchPage(origin string) (string, bool) {
	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(r.client.UserAgent),
	)
	c.WithTransport(r.client.Transport())

	var body string
	var got, failed bool

	c.OnResponse(func(resp *colly.Response) {
		body = string(resp.Body)
		got = true
	})

	c.OnError(func(resp *colly.Response, err error) {
		failed = true
		// 非 2xx 静默跳过，入口页拿不到就干净退出；只有传输层错误才值得一行日志
		if resp != nil && resp.StatusCode != 0 {
			return
		}
		ui.PrintError("failed to fetch %s: %v", origin, err)
	})

	err := c.Visit(origin)
	c.Wait()

	if err != nil && !got && !failed {
		// Visit 对非法 URL 在发请求前就报错，这时 OnError 不会触发
		ui.PrintError("failed to fetch %s: %v", origin, err)
	}

	return body, got
}

// fetchMaps 按文档顺序串行下载 sourcemap
// 推导出的 .js.map 不存在时，退回脚本本体里的 sourceMappingURL 注释
func (r *Recoverer) fetchMaps(refs []models.ScriptRef) []models.MapArtifact {
	var artifacts []models.MapArtifact

	for i, ref := range refs {
		if r.OnProgress != nil {
			r.OnProgress(i, len(refs), ref.MapURL)
		}

		body, err := r.client.FetchText(ref.MapURL)
		if err == nil {
			artifacts = append(artifacts, models.MapArtifact{URL: ref.MapURL, Body: []byte(body)})
			continue
		}
		if !errors.Is(err, fetcher.ErrNotOK) {
			ui.PrintError("failed to fetch %s: %v", ref.MapURL, err)
			continue
		}

		if art, found := r.fallbackFromScript(ref); found {
			artifacts = append(artifacts, art)
		}
	}

	if r.OnProgress != nil {
		r.OnProgress(len(refs), len(refs), "")
	}

	return artifacts
}

// fallbackFromScript 下载脚本本体并跟随其中的 sourceMappingURL
// 只接受同源相对引用和 data: URI，绝对 URL 按跨域丢弃
func (r *Recoverer) fallbackFromScript(ref models.ScriptRef) (models.MapArtifact, bool) {
	jsBody, err := r.client.FetchText(ref.ScriptURL)
	if err != nil {
		return models.MapArtifact{}, false
	}

	comment := discover.SourceMapComment(jsBody)
	if comment == "" {
		return models.MapArtifact{}, false
	}

	if data, ok := utils.DecodeDataURI(comment); ok {
		return models.MapArtifact{URL: ref.ScriptURL, Body: data}, true
	}

	mapURL := utils.ResolveMapRef(ref.ScriptURL, comment)
	if mapURL == "" {
		return models.MapArtifact{}, false
	}

	body, err := r.client.FetchText(mapURL)
	if err != nil {
		if !errors.Is(err, fetcher.ErrNotOK) {
			ui.PrintError("failed to fetch %s: %v", mapURL, err)
		}
		return models.MapArtifact{}, false
	}
	return models.MapArtifact{URL: mapURL, Body: []byte(body)}, true
}

// processMap 解码并落盘单个 sourcemap，所有错误只记录不终止
func (r *Recoverer) processMap(origin string, art models.MapArtifact) {
	report := &models.MapReport{URL: art.URL, State: models.StateUnsupported}
	r.Reports = append(r.Reports, report)

	sm, err := sourcemap.Decode(art.Body)
	if err != nil {
		r.unsupported++
		return
	}

	report.State = models.StateDecoded
	report.Sources = len(sm.Sources)
	r.decoded++

	for _, entry := range sm.Entries() {
		// 没有内联内容的条目直接丢弃
		if entry.Content == nil {
			continue
		}
		if _, err := r.writer.Write(origin, entry.Path, *entry.Content); err != nil {
			ui.PrintError("failed to write %s: %v", entry.Path, err)
			continue
		}
		size := int64(len(*entry.Content))
		report.Written++
		report.Bytes += size
		r.written++
		r.bytes += size
	}
}
