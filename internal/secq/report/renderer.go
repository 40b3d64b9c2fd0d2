// Package report 渲染问卷报告并写入输出目录。
package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kart-io/secq/internal/secq/model"
	secqerrors "github.com/kart-io/secq/pkg/errors"
)

// timestampLayout 报告文件名中的时间格式 YYYYMMDD_HHMMSS。
const timestampLayout = "20060102_150405"

// Data 是传给报告模板的数据。
type Data struct {
	Questions    []*model.Question
	RiskOverview *model.Question
	GeneratedAt  time.Time
	Document     string
	Model        string
}

// Renderer 使用 html/template 渲染报告。
type Renderer struct {
	path string
	tmpl *template.Template
}

// NewRenderer 加载模板文件。文件不存在返回 ErrFileNotFound，解析失败返回 ErrRender。
func NewRenderer(path string) (*Renderer, error) {
	logger.Infow("Loading report template", "path", path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, secqerrors.ErrFileNotFound.WithMessagef("template file not found: %s", path)
		}
		return nil, secqerrors.ErrRender.WithCause(err)
	}

	tmpl, err := template.New(filepath.Base(path)).Funcs(FuncMap()).ParseFiles(path)
	if err != nil {
		logger.Errorw("Error loading template", "path", path, "error", err.Error())
		return nil, secqerrors.ErrRender.WithCause(err)
	}
	return &Renderer{path: path, tmpl: tmpl}, nil
}

// Render 执行模板并返回 HTML。
func (r *Renderer) Render(data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		logger.Errorw("Error rendering HTML content", "template", r.path, "error", err.Error())
		return nil, secqerrors.ErrRender.WithCause(err)
	}
	logger.Info("HTML content rendered successfully.")
	return buf.Bytes(), nil
}

// FileName 返回 now 对应的报告文件名 report_YYYYMMDD_HHMMSS.html。
func FileName(now time.Time) string {
	return "report_" + now.Format(timestampLayout) + ".html"
}

// EnsureDir 创建输出目录（如不存在）。
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return secqerrors.ErrReportWrite.WithCause(fmt.Errorf("create output directory %s: %w", dir, err))
	}
	logger.Infow("Created output directory", "path", dir)
	return nil
}

// Write 将报告写入 dir/report_<timestamp>.html，返回文件路径。
func Write(dir string, now time.Time, content []byte) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		logger.Errorw("Failed to write HTML report", "path", path, "error", err.Error())
		return "", secqerrors.ErrReportWrite.WithCause(err)
	}
	logger.Infow("Report generated successfully", "path", path)
	return path, nil
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// FuncMap 返回模板可用的函数：markdown、nl2br、default。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"nl2br":    NL2BR,
		"default":  Default,
	}
}

// Markdown 将模型回答中的 Markdown 转为 HTML。原始 HTML 不会输出。
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return NL2BR(s)
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark 默认不渲染原始 HTML
}

// NL2BR 转义文本并将换行替换为 <br>。
func NL2BR(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n")) //nolint:gosec
}

// Default 在 value 为空白时返回 def。
func Default(def, value string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
