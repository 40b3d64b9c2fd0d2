// Package runner provides question batch runner options.
package runner

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/secq/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options controls how the question batch is processed.
type Options struct {
	// Workers is the number of questions answered concurrently. 1 is sequential.
	Workers int `json:"workers" mapstructure:"workers"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{Workers: 1}
}

// AddFlags adds flags for runner options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.Workers, options.Join(prefixes...)+"workers", o.Workers, "Number of questions answered concurrently (1 = sequential).")
}

// Validate validates the runner options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	if o.Workers < 1 {
		return []error{fmt.Errorf("runner.workers must be at least 1, got %d", o.Workers)}
	}
	return nil
}
