package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Progress 下载进度显示器，只在 stderr 是终端时使用
type Progress struct {
	total     int
	current   int
	mu        sync.Mutex
	startTime time.Time
	message   string
	spinner   int
	done      bool
	doneChan  chan struct{}
}

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewProgress 创建新的进度显示器
func NewProgress(total int) *Progress {
	p := &Progress{
		total:     total,
		startTime: time.Now(),
		doneChan:  make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Progress) run() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			if !p.done {
				p.render()
			}
			p.mu.Unlock()
		case <-p.doneChan:
			return
		}
	}
}

func (p *Progress) render() {
	p.spinner = (p.spinner + 1) % len(spinnerChars)
	elapsed := time.Since(p.startTime)

	// 清除当前行
	fmt.Fprint(os.Stderr, "\r\033[K")

	width := 30
	filled := 0
	if p.total > 0 {
		filled = int(float64(p.current) / float64(p.total) * float64(width))
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	percent := 0
	if p.total > 0 {
		percent = int(float64(p.current) / float64(p.total) * 100)
	}

	rate := float64(0)
	if elapsed.Seconds() > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(os.Stderr, "%s %s [%s] %d/%d (%d%%) %.1f/s %s",
		cyan(spinnerChars[p.spinner]),
		yellow("下载中"),
		bar,
		p.current,
		p.total,
		percent,
		rate,
		p.message,
	)
}

// Update 更新进度
func (p *Progress) Update(current int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	p.message = message
}

// SetTotal 设置总数
func (p *Progress) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Stop 停止进度显示
func (p *Progress) Stop() {
	p.mu.Lock()
	p.done = true
	p.mu.Unlock()
	close(p.doneChan)
	fmt.Fprint(os.Stderr, "\r\033[K")
}

// PrintBanner 打印启动 Banner
func PrintBanner() {
	banner := `
   _____ __  __ _____
  / ____|  \/  |  __ \
 | (___ | \  / | |__) |___  ___ _____   _____ _ __
  \___ \| |\/| |  _  // _ \/ __/ _ \ \ / / _ \ '__|
  ____) | |  | | | \ \  __/ (_| (_) \ V /  __/ |
 |_____/|_|  |_|_|  \_\___|\___\___/ \_/ \___|_|
`
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(color.Error, banner)

	info := color.New(color.FgWhite)
	info.Fprintln(color.Error, "  SourceMap Source Recovery Tool")
	fmt.Fprintln(color.Error)
}

// PrintSection 打印分隔区域
func PrintSection(title string) {
	fmt.Fprintln(color.Error)
	color.New(color.FgCyan, color.Bold).Fprintf(color.Error, "━━━ %s ━━━\n", title)
}

// Bold 行内强调
func Bold(s string) string {
	return color.New(color.FgWhite, color.Bold).Sprint(s)
}

// 以下状态输出全部走 stderr，stdout 留给终态消息

// PrintSuccess 打印成功信息
func PrintSuccess(format string, a ...interface{}) {
	color.New(color.FgGreen).Fprintf(color.Error, "[+] "+format+"\n", a...)
}

// PrintInfo 打印信息
func PrintInfo(format string, a ...interface{}) {
	color.New(color.FgCyan).Fprintf(color.Error, "[*] "+format+"\n", a...)
}

// PrintWarning 打印警告
func PrintWarning(format string, a ...interface{}) {
	color.New(color.FgYellow).Fprintf(color.Error, "[!] "+format+"\n", a...)
}

// PrintError 打印错误
func PrintError(format string, a ...interface{}) {
	color.New(color.FgRed).Fprintf(color.Error, "[-] "+format+"\n", a...)
}
