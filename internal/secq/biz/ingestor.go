package biz

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kart-io/logger"
	"github.com/ledongthuc/pdf"

	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/infra/tracing"
)

// Ingestor 从源文档中提取纯文本。
type Ingestor interface {
	// ExtractText 返回按页顺序拼接的文档文本。
	ExtractText(ctx context.Context, path string) (string, error)
}

// PDFIngestor 使用 ledongthuc/pdf 提取 PDF 文本。
type PDFIngestor struct{}

// NewPDFIngestor 创建 PDF 提取器。
func NewPDFIngestor() *PDFIngestor {
	return &PDFIngestor{}
}

var _ Ingestor = (*PDFIngestor)(nil)

// ExtractText 提取 PDF 每页的纯文本并按页顺序拼接，不做任何规范化。
// 文件不存在返回 ErrFileNotFound，无法解析（包括解析器 panic）返回 ErrExtraction。
func (i *PDFIngestor) ExtractText(ctx context.Context, path string) (text string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracing.SpanIngest, tracing.String(tracing.AttrPath, path))
	defer span.End()
	defer func() { tracing.RecordError(ctx, err) }()

	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			logger.Errorw("PDF file not found", "path", path)
			return "", secqerrors.ErrFileNotFound.WithMessagef("PDF file not found: %s", path)
		}
		return "", secqerrors.ErrExtraction.WithCause(statErr)
	}

	logger.Infow("Loading PDF file", "path", path)

	text, pages, err := extractPDF(ctx, path)
	if err != nil {
		logger.Errorw("Failed to extract text from PDF", "path", path, "error", err.Error())
		return "", secqerrors.ErrExtraction.WithCause(err)
	}

	logger.Infow("Extracted text from PDF", "path", path, "pages", pages, "chars", len(text))
	return text, nil
}

// extractPDF 解析 PDF。解析器在损坏的文件上可能 panic，这里统一转为错误。
func extractPDF(ctx context.Context, path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	fonts := make(map[string]*pdf.Font)
	pages = r.NumPage()
	for n := 1; n <= pages; n++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}

		p := r.Page(n)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		content, err := p.GetPlainText(fonts)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", n, err)
		}
		b.WriteString(content)
	}
	return b.String(), pages, nil
}
