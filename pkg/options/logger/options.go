// Package logger provides logger configuration options.
package logger

import (
	"fmt"
	"strings"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"github.com/kart-io/logger/option"
	"github.com/spf13/pflag"
)

// Options holds the subset of option.LogOption exposed on the command line.
type Options struct {
	Engine      string   `json:"engine" mapstructure:"engine"`
	Level       string   `json:"level" mapstructure:"level"`
	Format      string   `json:"format" mapstructure:"format"`
	OutputPaths []string `json:"output-paths" mapstructure:"output-paths"`
	Development bool     `json:"development" mapstructure:"development"`

	// 以下字段只在启动时由程序写入
	initialFields map[string]interface{}
}

// NewOptions creates new Options with defaults: console output to stdout and app.log.
func NewOptions() *Options {
	def := option.DefaultLogOption()
	return &Options{
		Engine:      def.Engine,
		Level:       def.Level,
		Format:      "console",
		OutputPaths: []string{"stdout", "app.log"},
	}
}

// AddFlags adds flags for logger options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Engine, "log.engine", o.Engine, "Logging engine (zap|slog)")
	fs.StringVar(&o.Level, "log.level", o.Level, "Log level (DEBUG|INFO|WARN|ERROR|FATAL)")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log format (json|console)")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Output paths for logs")
	fs.BoolVar(&o.Development, "log.development", o.Development, "Enable development mode")
}

// Validate validates the logger options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if _, err := core.ParseLevel(o.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(o.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", o.Format))
	}
	if len(o.OutputPaths) == 0 {
		errs = append(errs, fmt.Errorf("log.output-paths must not be empty"))
	}
	return errs
}

// AddInitialField 添加每条日志都携带的字段（如 service.name）。
func (o *Options) AddInitialField(key string, value interface{}) *Options {
	if o.initialFields == nil {
		o.initialFields = make(map[string]interface{})
	}
	o.initialFields[key] = value
	return o
}

// ToLogOption converts the options into a kart-io/logger option.
func (o *Options) ToLogOption() *option.LogOption {
	opt := option.DefaultLogOption()
	opt.Engine = o.Engine
	opt.Level = o.Level
	opt.Format = strings.ToLower(o.Format)
	opt.OutputPaths = append([]string(nil), o.OutputPaths...)
	opt.Development = o.Development
	for k, v := range o.initialFields {
		opt.AddInitialField(k, v)
	}
	return opt
}

// CreateLogger creates a new logger instance based on the options.
func (o *Options) CreateLogger() (core.Logger, error) {
	opt := o.ToLogOption()
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return logger.New(opt)
}

// Init initializes the global logger with the options.
func (o *Options) Init() error {
	log, err := o.CreateLogger()
	if err != nil {
		return err
	}
	logger.SetGlobal(log)
	return nil
}
