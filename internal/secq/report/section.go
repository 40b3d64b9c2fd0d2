package report

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	secqerrors "github.com/kart-io/secq/pkg/errors"
)

var (
	requestLabel = regexp.MustCompile(`(?i)^\s*request\s*:\s*`)
	spaces       = regexp.MustCompile(`\s+`)
)

// ExtractRequest 在 section 选择器对应的区块中查找 request 元素并返回其文本。
// 去掉开头的 "Request:" 标签并压缩空白；区块或元素不存在时返回空字符串。
func ExtractRequest(r io.Reader, section, request string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", secqerrors.ErrRender.WithCause(err)
	}

	sel := doc.Find(section).First()
	if sel.Length() == 0 {
		return "", nil
	}
	req := sel.Find(request).First()
	if req.Length() == 0 {
		return "", nil
	}

	text := spaces.ReplaceAllString(strings.TrimSpace(req.Text()), " ")
	return strings.TrimSpace(requestLabel.ReplaceAllString(text, "")), nil
}

// ExtractRequestFromFile 从模板文件中提取风险概览请求。
func ExtractRequestFromFile(path, section, request string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", secqerrors.ErrFileNotFound.WithMessagef("template file not found: %s", path)
		}
		return "", secqerrors.ErrRender.WithCause(err)
	}
	defer func() { _ = f.Close() }()

	return ExtractRequest(f, section, request)
}
