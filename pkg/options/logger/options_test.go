package logger

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, "console", o.Format)
	assert.Equal(t, []string{"stdout", "app.log"}, o.OutputPaths)
	assert.Empty(t, o.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		errs   int
	}{
		{"bad level", func(o *Options) { o.Level = "LOUD" }, 1},
		{"bad format", func(o *Options) { o.Format = "xml" }, 1},
		{"no outputs", func(o *Options) { o.OutputPaths = nil }, 1},
		{"upper-case format", func(o *Options) { o.Format = "JSON" }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.modify(o)
			assert.Len(t, o.Validate(), tt.errs)
		})
	}
}

func TestFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--log.level=DEBUG", "--log.output-paths=stdout"}))
	assert.Equal(t, "DEBUG", o.Level)
	assert.Equal(t, []string{"stdout"}, o.OutputPaths)
}

func TestToLogOption(t *testing.T) {
	o := NewOptions()
	o.Format = "JSON"
	o.AddInitialField("service.name", "secq")

	opt := o.ToLogOption()
	assert.Equal(t, "json", opt.Format)
	assert.Equal(t, []string{"stdout", "app.log"}, opt.OutputPaths)
	assert.Equal(t, "secq", opt.GetInitialFields()["service.name"])

	// the returned slice is a copy
	opt.OutputPaths[0] = "stderr"
	assert.Equal(t, "stdout", o.OutputPaths[0])
}

func TestCreateLogger(t *testing.T) {
	o := NewOptions()
	o.OutputPaths = []string{"stdout"}

	log, err := o.CreateLogger()
	require.NoError(t, err)
	assert.NotNil(t, log)
}
