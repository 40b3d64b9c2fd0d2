// Package app provides application bootstrapping with Cobra, Viper, and Pflag.
//
// Configuration precedence, highest first: command-line flags, environment
// variables (prefixed, then aliases), the config file, flag defaults.
// A dotenv file is loaded into the process environment before any of it is
// resolved; variables already set in the environment win over the file.
//
// Usage:
//
//	app := app.NewApp(
//	    app.WithName("myapp"),
//	    app.WithDescription("My application"),
//	    app.WithOptions(opts),
//	    app.WithRunFunc(run),
//	)
//	app.Run()
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kart-io/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cliapp "github.com/kart-io/secq/pkg/app"
	cliflag "github.com/kart-io/secq/pkg/app/cliflag"
	secqerrors "github.com/kart-io/secq/pkg/errors"
)

const defaultEnvFile = ".env"

// App is the main application structure.
type App struct {
	name        string
	shortDesc   string
	description string
	options     cliapp.CliOptions
	runFunc     RunFunc
	cmd         *cobra.Command
	viper       *viper.Viper
	silence     bool
	noVersion   bool
	noConfig    bool
}

// RunFunc is the application's run function.
type RunFunc func() error

// Option configures an App.
type Option func(*App)

// WithName sets the application name.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithShortDescription sets the short description.
func WithShortDescription(desc string) Option {
	return func(a *App) {
		a.shortDesc = desc
	}
}

// WithDescription sets the long description.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithOptions sets the CLI options.
func WithOptions(opts cliapp.CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the run function.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithSilence disables error printing by cobra.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithNoVersion disables version flag.
func WithNoVersion() Option {
	return func(a *App) {
		a.noVersion = true
	}
}

// WithNoConfig disables config file and environment loading.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// NewApp creates a new application instance.
func NewApp(opts ...Option) *App {
	a := &App{
		name:  filepath.Base(os.Args[0]),
		viper: viper.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.buildCommand()
	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		RunE:          a.runCommand,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: a.silence,
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	a.addGlobalFlags(cmd)

	if a.options != nil {
		fss := a.options.Flags()
		for _, name := range fss.Order {
			cmd.Flags().AddFlagSet(fss.FlagSets[name])
		}

		cmd.SetUsageFunc(func(c *cobra.Command) error {
			fmt.Fprintf(c.OutOrStderr(), "Usage:\n  %s\n", c.UseLine())
			cliflag.PrintSections(c.OutOrStderr(), a.globalFlagSets(c), 0)
			cliflag.PrintSections(c.OutOrStderr(), fss, 0)
			return nil
		})
	}

	a.cmd = cmd
}

func (a *App) addGlobalFlags(cmd *cobra.Command) {
	if !a.noConfig {
		cmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
		cmd.PersistentFlags().String("env-file", defaultEnvFile, "Path to a dotenv file loaded before reading the environment")
	}

	if !a.noVersion {
		version.AddFlags(cmd.PersistentFlags())
	}

	cmd.PersistentFlags().BoolP("help", "h", false, "Help for "+a.name)
}

func (a *App) globalFlagSets(cmd *cobra.Command) cliflag.NamedFlagSets {
	var fss cliflag.NamedFlagSets
	fss.FlagSet("global").AddFlagSet(cmd.PersistentFlags())
	return fss
}

func (a *App) runCommand(cmd *cobra.Command, _ []string) error {
	if !a.noVersion {
		version.PrintAndExitIfRequested()
	}

	if !a.noConfig {
		if err := a.loadEnvFile(cmd); err != nil {
			return err
		}
		if err := a.loadConfig(cmd); err != nil {
			return err
		}
	}

	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return err
		}
		if err := a.options.Validate(); err != nil {
			return secqerrors.ErrConfigInvalid.WithCause(err)
		}
	}

	if a.runFunc != nil {
		return a.runFunc()
	}
	return nil
}

// loadEnvFile loads the dotenv file into the process environment.
// The default file may be absent; an explicitly requested one may not.
func (a *App) loadEnvFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// loadConfig loads configuration from file, environment, and flags.
func (a *App) loadConfig(cmd *cobra.Command) error {
	v := a.viper

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(a.name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), "."+a.name))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	expandEnvVars(v)

	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(a.name, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if aliaser, ok := a.options.(cliapp.EnvAliaser); ok {
		for key, envs := range aliaser.EnvAliases() {
			if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
				return fmt.Errorf("failed to bind env for %s: %w", key, err)
			}
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if a.options != nil {
		if err := v.Unmarshal(a.options); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	return nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands ${VAR} and $VAR style environment variables in config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		expanded := envPattern.ReplaceAllStringFunc(strVal, func(match string) string {
			varName := strings.TrimPrefix(match, "$")
			varName = strings.TrimSuffix(strings.TrimPrefix(varName, "{"), "}")
			if envVal := os.Getenv(varName); envVal != "" {
				return envVal
			}
			return match // 保留原样，如果环境变量不存在
		})
		if expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// Execute runs the command and returns its error without exiting.
func (a *App) Execute() error {
	return a.cmd.Execute()
}

// Run executes the application and exits with the code carried by the error.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		os.Exit(a.exitCode(err))
	}
}

// exitCode 返回 err 对应的退出码。cobra 不输出错误时，在此输出带错误码的详情。
func (a *App) exitCode(err error) int {
	errno := secqerrors.FromError(err)
	if a.silence {
		fmt.Fprintf(a.cmd.ErrOrStderr(), "Error: %+v\n", errno)
	}
	return errno.ExitCode()
}

// Command returns the cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// GetVersion returns the version string injected at build time.
func GetVersion() string {
	return version.Get().GitVersion
}
