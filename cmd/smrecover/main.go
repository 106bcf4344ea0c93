package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"SMRecover/pkg/models"
	"SMRecover/pkg/recovery"
	"SMRecover/pkg/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smrecover <url>",
		Short: "SMRecover - 从线上应用的 SourceMap 恢复原始源码",
		Long: `SMRecover 抓取目标页面中的同源 JavaScript 脚本，下载对应的 SourceMap，
并把其中内联的原始源码还原到本地 ./out/<host>/ 目录。
跨域脚本、动态加载的脚本不在恢复范围内。`,
		Args: cobra.ExactArgs(1),
		Run:  runRecover,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRecover(cmd *cobra.Command, args []string) {
	origin := args[0]

	ui.PrintBanner()

	r, err := recovery.NewRecoverer()
	if err != nil {
		ui.PrintError("初始化失败: %v", err)
		os.Exit(1)
	}

	// 进度条只在 stderr 是终端时挂上，重定向到文件时保持日志干净
	var progress *ui.Progress
	if isatty.IsTerminal(os.Stderr.Fd()) {
		r.OnProgress = func(done, total int, url string) {
			if progress == nil && total > 0 {
				progress = ui.NewProgress(total)
			}
			if progress != nil {
				progress.Update(done, url)
			}
		}
	}

	start := time.Now()
	r.Recover(origin)
	if progress != nil {
		progress.Stop()
	}

	stats := r.Stats()
	ui.PrintSuccess("恢复完成，耗时: %s", time.Since(start).Round(time.Millisecond))
	ui.PrintSuccess("共写出 %d 个源文件 (%d 字节)", stats.FilesWritten, stats.BytesWritten)
	if stats.Unsupported > 0 {
		ui.PrintWarning("跳过 %d 个无法识别的 sourcemap", stats.Unsupported)
	}

	printTable(r.Reports)
}

func printTable(reports []*models.MapReport) {
	if len(reports) == 0 {
		return
	}

	ui.PrintSection("SourceMap 明细")

	table := tablewriter.NewWriter(color.Error)
	table.SetHeader([]string{"SourceMap", "状态", "源文件", "写入", "字节"})
	table.SetAutoWrapText(true)
	table.SetRowLine(true)
	table.SetColWidth(60)

	for _, rep := range reports {
		state := rep.State
		switch state {
		case models.StateDecoded:
			state = color.GreenString(state)
		case models.StateUnsupported:
			state = color.YellowString(state)
		}

		table.Append([]string{
			rep.URL,
			state,
			fmt.Sprintf("%d", rep.Sources),
			fmt.Sprintf("%d", rep.Written),
			fmt.Sprintf("%d", rep.Bytes),
		})
	}
	table.Render()
}
