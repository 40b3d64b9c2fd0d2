package report

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	o.AddFlags(fs, "report")

	require.NoError(t, fs.Parse([]string{
		"--report.questions-file=questions.json",
		"--report.template-dir=templates",
		"--report.template-name=report.html",
		"--report.risk-overview.enabled=false",
	}))

	assert.Equal(t, "questions.json", o.QuestionsFile)
	assert.Equal(t, filepath.Join("templates", "report.html"), o.TemplatePath())
	assert.False(t, o.RiskOverview.Enabled)
}

func TestTemplatePathIncomplete(t *testing.T) {
	o := NewOptions()
	o.TemplateDir = "templates"
	assert.Empty(t, o.TemplatePath())
}

func TestValidate(t *testing.T) {
	o := NewOptions()
	assert.Empty(t, o.Validate())

	o.TemplateName = "../report.html"
	o.RiskOverview.Section = ""
	assert.Len(t, o.Validate(), 2)

	o.RiskOverview.Enabled = false
	assert.Len(t, o.Validate(), 1)
}

func TestComplete(t *testing.T) {
	o := &Options{}
	require.NoError(t, o.Complete())
	assert.Equal(t, "#risk-overview", o.RiskOverview.Section)
}
