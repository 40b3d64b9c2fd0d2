package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/secq/internal/secq/model"
	secqerrors "github.com/kart-io/secq/pkg/errors"
	"github.com/kart-io/secq/pkg/utils/json"
)

func testData() *Data {
	return &Data{
		Questions: []*model.Question{
			{ID: json.RawMessage("1"), Text: "Is data encrypted at rest?", Guidance: "Algorithms", LLMResponse: "Yes.\nAES-256.", Valid: true},
			{ID: json.RawMessage(`"Q-2"`), Text: "<script>alert(1)</script>", LLMResponse: "Invalid question format."},
		},
		RiskOverview: &model.Question{ID: json.RawMessage(`"risk_overview"`), Text: "Risk Overview Request: x", LLMResponse: "**High** risk"},
		GeneratedAt:  time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	r, err := NewRenderer(filepath.Join("testdata", "report_template.html"))
	require.NoError(t, err)

	out, err := r.Render(testData())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `<td class="id">1</td>`)
	assert.Contains(t, html, `<td class="id">Q-2</td>`)
	assert.Contains(t, html, "Yes.<br>\nAES-256.")
	assert.Contains(t, html, `<td class="guidance">Algorithms</td>`)
	assert.Contains(t, html, `<td class="guidance">-</td>`)
	assert.Contains(t, html, "<strong>High</strong> risk")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestNewRendererErrors(t *testing.T) {
	_, err := NewRenderer(filepath.Join(t.TempDir(), "missing.html"))
	assert.True(t, errors.Is(err, secqerrors.ErrFileNotFound))

	bad := filepath.Join(t.TempDir(), "bad.html")
	require.NoError(t, os.WriteFile(bad, []byte("{{ range .Questions }"), 0o600))
	_, err = NewRenderer(bad)
	assert.True(t, errors.Is(err, secqerrors.ErrRender))
}

func TestRenderExecutionError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.html")
	require.NoError(t, os.WriteFile(path, []byte("{{ .Missing.Field }}"), 0o600))

	r, err := NewRenderer(path)
	require.NoError(t, err)
	_, err = r.Render(testData())
	assert.True(t, errors.Is(err, secqerrors.ErrRender))
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "report_20240305_140709.html", FileName(now))
	assert.Equal(t, "report_20240305_140709.xlsx", XLSXFileName(now))
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	path, err := Write(dir, now, []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_20240102_030405.html"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(b))
}

func TestFuncs(t *testing.T) {
	assert.Equal(t, "fallback", Default("fallback", "  "))
	assert.Equal(t, "value", Default("fallback", "value"))
	assert.Equal(t, "a &lt;b&gt;<br>\nc", string(NL2BR("a <b>\r\nc")))

	html := string(Markdown("- one\n- two\n\n<img src=x onerror=alert(1)>"))
	assert.Contains(t, html, "<li>one</li>")
	assert.False(t, strings.Contains(html, "onerror"))
}
