package budget

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for budget configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Disabled string
	File     string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for budget configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewTracker] to create a [Tracker].
type Config struct {
	File     string
	Disabled []string
	Flags    Flags
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Disabled: "budgets-disabled",
		File:     "budgets-file",
	}

	return f.NewConfig()
}

// RegisterFlags adds budget flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&c.Disabled, c.Flags.Disabled, nil,
		"comma-separated list of budgets to disable")
	flags.StringVar(&c.File, c.Flags.File, "",
		"YAML budget configuration file")
}

// RegisterCompletions registers shell completions for budget flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Disabled,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Disabled, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.File,
		cobra.FixedCompletions([]string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.File, err)
	}

	return nil
}

// NewTracker creates a [Tracker] from the configured flags and, when set,
// the configuration file. Disabled names from both sources are merged.
func (c *Config) NewTracker(opts ...TrackerOption) (*Tracker, error) {
	disabled := append([]string(nil), c.Disabled...)

	if c.File != "" {
		f, err := LoadFile(c.File)
		if err != nil {
			return nil, err
		}

		disabled = append(disabled, f.Disabled...)
	}

	opts = append([]TrackerOption{WithDisabled(disabled...)}, opts...)

	return NewTracker(opts...), nil
}
