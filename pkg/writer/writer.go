package writer

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"SMRecover/pkg/ui"
)

// ErrBadPath 清洗后的逻辑路径没有文件名部分
var ErrBadPath = errors.New("bad source path")

// Writer 把恢复出的源码落盘到 <Root>/<host>/... 下
type Writer struct {
	Root string
}

// New 创建 Writer，root 通常是 ./out
func New(root string) *Writer {
	return &Writer{Root: root}
}

// HostKey 去掉 origin 的 http(s):// 前缀，作为输出根目录名
// 只各去一次前缀，其它 scheme 原样透传；端口和路径保留
func HostKey(origin string) string {
	host := strings.TrimPrefix(origin, "http://")
	host = strings.TrimPrefix(host, "https://")
	return host
}

// CleanSourcePath 去掉构建工具前缀并做目录穿越防护
func CleanSourcePath(source string) string {
	trimmed := strings.TrimPrefix(source, "webpack:///")
	trimmed = strings.TrimPrefix(trimmed, "./")
	// 先挂到根上再 Clean，../ 逃不出输出目录
	return strings.TrimPrefix(path.Clean("/"+trimmed), "/")
}

// Write 把单个源文件写入 <Root>/<host>/<dir>/<file>，返回实际写入路径
// 打开方式是 create+append：路径碰撞时内容级联而不是静默覆盖，保留碰撞证据
func (w *Writer) Write(origin string, source string, contents string) (string, error) {
	host := HostKey(origin)
	trimmed := CleanSourcePath(source)

	dir, file := path.Split(trimmed)
	if file == "" {
		return "", fmt.Errorf("%w: %q", ErrBadPath, source)
	}

	outDir := filepath.Join(w.Root, filepath.FromSlash(host), filepath.FromSlash(dir))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	target := filepath.Join(outDir, file)
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString(contents); err != nil {
		return "", err
	}

	ui.PrintSuccess("found original source for module %s and file %s of size %d", outDir, file, len(contents))
	return target, nil
}
