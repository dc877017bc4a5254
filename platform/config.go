package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Backend names accepted by [Config].
const (
	BackendNone  = "none"
	BackendTrace = "trace"
	BackendLog   = "log"
)

// ErrUnknownBackend indicates an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown platform backend")

// GetAllBackendStrings returns all accepted backend names.
func GetAllBackendStrings() []string {
	return []string{BackendNone, BackendTrace, BackendLog}
}

// Flags holds CLI flag names for platform configuration.
type Flags struct {
	Backend string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for platform backend selection.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewBackend] to create a [Backend].
type Config struct {
	Backend string
	Flags   Flags
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Backend: "platform",
	}

	return f.NewConfig()
}

// RegisterFlags adds platform flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Backend, c.Flags.Backend, BackendTrace,
		fmt.Sprintf("platform backend, one of: %s", GetAllBackendStrings()))
}

// RegisterCompletions registers shell completions for platform flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Backend,
		cobra.FixedCompletions(GetAllBackendStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Backend, err)
	}

	return nil
}

// NewBackend creates the configured [Backend]. The logger is used by the
// log backend; nil means [slog.Default].
func (c *Config) NewBackend(logger *slog.Logger) (Backend, error) {
	switch strings.ToLower(c.Backend) {
	case BackendNone, "":
		return Nop{}, nil
	case BackendTrace:
		return NewTraceBackend(context.Background()), nil
	case BackendLog:
		return NewLogBackend(logger), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
}
