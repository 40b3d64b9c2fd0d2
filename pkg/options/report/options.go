// Package report provides input file and report output options.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/kart-io/secq/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains the question set, source document, template and output settings.
type Options struct {
	QuestionsFile string `json:"questions-file" mapstructure:"questions-file"`
	PDFFile       string `json:"pdf-file" mapstructure:"pdf-file"`
	TemplateDir   string `json:"template-dir" mapstructure:"template-dir"`
	TemplateName  string `json:"template-name" mapstructure:"template-name"`
	OutputDir     string `json:"output-dir" mapstructure:"output-dir"`

	// XLSX additionally writes the answers as a spreadsheet.
	XLSX bool `json:"xlsx" mapstructure:"xlsx"`

	RiskOverview *RiskOverviewOptions `json:"risk-overview" mapstructure:"risk-overview"`
}

// RiskOverviewOptions locates the risk overview request inside the template.
type RiskOverviewOptions struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Section is the CSS selector of the risk overview section.
	Section string `json:"section" mapstructure:"section"`
	// Request is the CSS selector of the request text inside the section.
	Request string `json:"request" mapstructure:"request"`
}

// NewOptions creates new Options with defaults. The input locations have no
// defaults and must come from the environment, a config file or flags.
func NewOptions() *Options {
	return &Options{
		RiskOverview: &RiskOverviewOptions{
			Enabled: true,
			Section: "#risk-overview",
			Request: ".request",
		},
	}
}

// AddFlags adds flags for report options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.QuestionsFile, p+"questions-file", o.QuestionsFile, "Path of the security questions JSON file.")
	fs.StringVar(&o.PDFFile, p+"pdf-file", o.PDFFile, "Path of the source PDF document.")
	fs.StringVar(&o.TemplateDir, p+"template-dir", o.TemplateDir, "Directory containing the report template.")
	fs.StringVar(&o.TemplateName, p+"template-name", o.TemplateName, "File name of the report template.")
	fs.StringVar(&o.OutputDir, p+"output-dir", o.OutputDir, "Directory the report is written to.")
	fs.BoolVar(&o.XLSX, p+"xlsx", o.XLSX, "Also write the answers as an .xlsx spreadsheet.")

	if o.RiskOverview == nil {
		o.RiskOverview = &RiskOverviewOptions{}
	}
	fs.BoolVar(&o.RiskOverview.Enabled, p+"risk-overview.enabled", o.RiskOverview.Enabled, "Answer the risk overview request found in the template.")
	fs.StringVar(&o.RiskOverview.Section, p+"risk-overview.section", o.RiskOverview.Section, "CSS selector of the risk overview section.")
	fs.StringVar(&o.RiskOverview.Request, p+"risk-overview.request", o.RiskOverview.Request, "CSS selector of the request inside the risk overview section.")
}

// Validate validates the report options.
// 必需的路径是否为空由流水线的依赖检查负责。
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.TemplateName != "" && filepath.Base(o.TemplateName) != o.TemplateName {
		errs = append(errs, fmt.Errorf("report.template-name must be a file name, got %q", o.TemplateName))
	}
	if o.RiskOverview != nil && o.RiskOverview.Enabled {
		if o.RiskOverview.Section == "" || o.RiskOverview.Request == "" {
			errs = append(errs, fmt.Errorf("report.risk-overview selectors are required when enabled"))
		}
	}
	return errs
}

// Complete completes the report options with defaults.
func (o *Options) Complete() error {
	if o.RiskOverview == nil {
		o.RiskOverview = NewOptions().RiskOverview
	}
	return nil
}

// TemplatePath returns the full path of the report template.
func (o *Options) TemplatePath() string {
	if o.TemplateDir == "" || o.TemplateName == "" {
		return ""
	}
	return filepath.Join(o.TemplateDir, o.TemplateName)
}
