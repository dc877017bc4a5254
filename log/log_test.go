package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/scopeprof/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    log.Level
		expectError bool
	}{
		"error level":      {input: "error", expected: log.LevelError},
		"warn level":       {input: "warn", expected: log.LevelWarn},
		"warning alias":    {input: "warning", expected: log.LevelWarn},
		"info level":       {input: "info", expected: log.LevelInfo},
		"debug level":      {input: "debug", expected: log.LevelDebug},
		"case insensitive": {input: "DEBUG", expected: log.LevelDebug},
		"unknown level":    {input: "trace", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := log.ParseLevel(tc.input)
			if tc.expectError {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, lvl)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    log.Format
		expectError bool
	}{
		"json format":      {input: "json", expected: log.FormatJSON},
		"logfmt format":    {input: "logfmt", expected: log.FormatLogfmt},
		"text format":      {input: "text", expected: log.FormatText},
		"case insensitive": {input: "LOGFMT", expected: log.FormatLogfmt},
		"unknown format":   {input: "yaml", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			format, err := log.ParseFormat(tc.input)
			if tc.expectError {
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, format)
		})
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level log.Level
		want  slog.Level
	}{
		"error":   {level: log.LevelError, want: slog.LevelError},
		"warn":    {level: log.LevelWarn, want: slog.LevelWarn},
		"info":    {level: log.LevelInfo, want: slog.LevelInfo},
		"debug":   {level: log.LevelDebug, want: slog.LevelDebug},
		"unknown": {level: log.Level("bogus"), want: slog.LevelInfo},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.level.SlogLevel())
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		checkFunc func(*testing.T, []byte)
		format    log.Format
	}{
		"json handler": {
			format: log.FormatJSON,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				var logEntry map[string]any

				require.NoError(t, json.Unmarshal(output, &logEntry))
				assert.Equal(t, "region closed", logEntry["msg"])
				assert.Equal(t, "INFO", logEntry["level"])
				assert.Equal(t, "Render", logEntry["budget"])
			},
		},
		"logfmt handler": {
			format: log.FormatLogfmt,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				out := string(output)
				assert.Contains(t, out, "level=INFO")
				assert.Contains(t, out, `msg="region closed"`)
				assert.Contains(t, out, "budget=Render")
			},
		},
		"text handler": {
			format: log.FormatText,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				out := string(output)
				assert.Contains(t, out, "INFO")
				assert.Contains(t, out, "region closed")
				assert.Contains(t, out, "budget=Render")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler := log.NewHandler(&buf, log.LevelInfo, tc.format)
			require.NotNil(t, handler)

			slog.New(handler).Info("region closed", slog.String("budget", "Render"))

			tc.checkFunc(t, buf.Bytes())
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		levelStr    string
		formatStr   string
		expectError bool
	}{
		"valid json handler": {levelStr: "debug", formatStr: "json"},
		"invalid level":      {levelStr: "invalid", formatStr: "json", expectError: true},
		"invalid format":     {levelStr: "info", formatStr: "invalid", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler, err := log.NewHandlerFromStrings(&buf, tc.levelStr, tc.formatStr)
			if tc.expectError {
				require.ErrorIs(t, err, log.ErrInvalidArgument)
				assert.Nil(t, handler)

				return
			}

			require.NoError(t, err)
			slog.New(handler).Debug("begin region")
			assert.Contains(t, buf.String(), "begin region")
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		logFunc       func(*slog.Logger)
		level         log.Level
		shouldContain bool
	}{
		"info level passes info log": {
			level:         log.LevelInfo,
			logFunc:       func(l *slog.Logger) { l.Info("test message") },
			shouldContain: true,
		},
		"info level blocks debug log": {
			level:   log.LevelInfo,
			logFunc: func(l *slog.Logger) { l.Debug("test message") },
		},
		"error level blocks warn log": {
			level:   log.LevelError,
			logFunc: func(l *slog.Logger) { l.Warn("test message") },
		},
		"debug level passes debug log": {
			level:         log.LevelDebug,
			logFunc:       func(l *slog.Logger) { l.Debug("test message") },
			shouldContain: true,
		},
	}

	for name, tc := range tcs {
		for _, format := range []log.Format{log.FormatJSON, log.FormatText} {
			t.Run(name+"/"+string(format), func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer

				tc.logFunc(slog.New(log.NewHandler(&buf, tc.level, format)))

				if tc.shouldContain {
					assert.Contains(t, buf.String(), "test message")
				} else {
					assert.Empty(t, buf.String())
				}
			})
		}
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg.RegisterFlags(flags)

	require.NoError(t, flags.Parse([]string{"--log-level=debug", "--log-format=json"}))
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	var buf bytes.Buffer

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	cfg.Level = "loud"

	_, err = cfg.NewLogger(&buf)
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"log-level completions": {
			flag: "log-level",
			want: log.GetAllLevelStrings(),
		},
		"log-format completions": {
			flag: "log-format",
			want: log.GetAllFormatStrings(),
		},
	}

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			completionFn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := completionFn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}
