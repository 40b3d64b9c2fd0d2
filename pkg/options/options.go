// Package options holds the option-group contract shared by every secq
// flag section.
package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// IOptions is implemented by every option group.
type IOptions interface {
	// Validate 校验选项，必要时补全默认值。
	Validate() []error

	// AddFlags 在 fs 上注册选项，flag 名称以 prefixes 拼接为前缀。
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// Join 以 "." 拼接前缀，结果非空时追加结尾的 "."，例如 "report.risk-overview."。
func Join(prefixes ...string) string {
	joined := strings.Join(prefixes, ".")
	if joined != "" {
		joined += "."
	}
	return joined
}

// ValidateSection 校验一组选项，并为每个错误加上 section 前缀。
func ValidateSection(section string, o IOptions) []error {
	errs := o.Validate()
	if section == "" {
		return errs
	}
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		out = append(out, fmt.Errorf("%s.%w", section, err))
	}
	return out
}
