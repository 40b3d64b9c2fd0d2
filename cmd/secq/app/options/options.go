// Package options contains flags and options for running secq.
package options

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	secqsvc "github.com/kart-io/secq/internal/secq"
	cliapp "github.com/kart-io/secq/pkg/app"
	cliflag "github.com/kart-io/secq/pkg/app/cliflag"
	"github.com/kart-io/secq/pkg/infra/tracing"
	genericoptions "github.com/kart-io/secq/pkg/options"
	llmopts "github.com/kart-io/secq/pkg/options/llm"
	logopts "github.com/kart-io/secq/pkg/options/logger"
	ragopts "github.com/kart-io/secq/pkg/options/rag"
	reportopts "github.com/kart-io/secq/pkg/options/report"
	runneropts "github.com/kart-io/secq/pkg/options/runner"
)

var (
	_ cliapp.CliOptions = (*ServerOptions)(nil)
	_ cliapp.EnvAliaser = (*ServerOptions)(nil)
)

// ServerOptions contains the configuration options of a report run.
type ServerOptions struct {
	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// ChatOptions contains the answer generation model configuration.
	ChatOptions *llmopts.Options `json:"chat" mapstructure:"chat"`

	// RAGOptions contains the context index configuration.
	RAGOptions *ragopts.Options `json:"rag" mapstructure:"rag"`

	// ReportOptions contains input files and report output configuration.
	ReportOptions *reportopts.Options `json:"report" mapstructure:"report"`

	// RunnerOptions contains question batch configuration.
	RunnerOptions *runneropts.Options `json:"runner" mapstructure:"runner"`

	// TracingOptions contains OpenTelemetry configuration.
	TracingOptions *tracing.Options `json:"tracing" mapstructure:"tracing"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		LogOptions:     logopts.NewOptions(),
		ChatOptions:    llmopts.NewChatOptions(),
		RAGOptions:     ragopts.NewOptions(),
		ReportOptions:  reportopts.NewOptions(),
		RunnerOptions:  runneropts.NewOptions(),
		TracingOptions: tracing.NewOptions(),
	}
}

// Flags returns flags grouped by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.ChatOptions.AddFlags(fss.FlagSet("chat"), "chat")
	o.RAGOptions.AddFlags(fss.FlagSet("rag"), "rag")
	o.ReportOptions.AddFlags(fss.FlagSet("report"), "report")
	o.RunnerOptions.AddFlags(fss.FlagSet("runner"), "runner")
	o.TracingOptions.AddFlags(fss.FlagSet("tracing"))

	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.ChatOptions.Complete(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if err := o.RAGOptions.Complete(); err != nil {
		return fmt.Errorf("rag: %w", err)
	}
	if err := o.ReportOptions.Complete(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := o.TracingOptions.Complete(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// Validate checks whether the option values are well formed.
// 必需项是否缺失在运行开始时检查，以便逐项记录。
func (o *ServerOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.LogOptions.Validate()...)
	errs = append(errs, genericoptions.ValidateSection("chat", o.ChatOptions)...)
	errs = append(errs, o.RAGOptions.Validate()...)
	errs = append(errs, o.ReportOptions.Validate()...)
	errs = append(errs, o.RunnerOptions.Validate()...)
	errs = append(errs, o.TracingOptions.Validate()...)

	return utilerrors.NewAggregate(errs)
}

// EnvAliases maps configuration keys to the environment variables used by
// earlier deployments.
func (o *ServerOptions) EnvAliases() map[string][]string {
	return map[string][]string{
		"report.questions-file": {"SECURITY_QUESTIONS_FILE"},
		"report.template-dir":   {"TEMPLATE_DIR"},
		"report.template-name":  {"TEMPLATE_NAME"},
		"report.output-dir":     {"OUTPUT_DIR"},
		"report.pdf-file":       {"PDF_FILE_NAME"},
		"chat.llm.base-url":     {"OLLAMA_API_URL"},
		"chat.llm.model":        {"OLLAMA_MODEL"},
	}
}

// Config builds a secqsvc.Config based on ServerOptions.
func (o *ServerOptions) Config() (*secqsvc.Config, error) {
	return &secqsvc.Config{
		LogOptions:     o.LogOptions,
		ChatOptions:    o.ChatOptions.LLM,
		RAGOptions:     o.RAGOptions,
		ReportOptions:  o.ReportOptions,
		RunnerOptions:  o.RunnerOptions,
		TracingOptions: o.TracingOptions,
	}, nil
}
