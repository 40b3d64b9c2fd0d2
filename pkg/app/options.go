// Package app defines the contract between command options and the CLI bootstrap.
package app

import cliflag "github.com/kart-io/secq/pkg/app/cliflag"

// CliOptions is the interface for CLI options.
// Any options struct implementing this interface can be used with App.
type CliOptions interface {
	// Flags returns the option flags grouped into named sections.
	Flags() cliflag.NamedFlagSets
	// Complete completes the options with defaults.
	Complete() error
	// Validate validates the options.
	Validate() error
}

// EnvAliaser is implemented by options that accept extra environment
// variable names for some keys, e.g. legacy names without the app prefix.
type EnvAliaser interface {
	// EnvAliases maps a config key to the environment variables it may be read from.
	EnvAliases() map[string][]string
}
