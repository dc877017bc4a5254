package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/scopeprof/budget"
)

// Report output formats.
const (
	reportYAML = "yaml"
	reportJSON = "json"
)

func getAllReportFormats() []string {
	return []string{reportYAML, reportJSON}
}

type report struct {
	Version    string         `json:"version"            yaml:"version"`
	Platform   string         `json:"platform"           yaml:"platform"`
	Elapsed    string         `json:"elapsed"            yaml:"elapsed"`
	Budgets    []budgetReport `json:"budgets"            yaml:"budgets"`
	Disabled   []string       `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Workers    int            `json:"workers"            yaml:"workers"`
	Iterations int            `json:"iterations"         yaml:"iterations"`
	Depth      int            `json:"depth"              yaml:"depth"`
}

type budgetReport struct {
	Name string `json:"name" yaml:"name"`
	Busy string `json:"busy" yaml:"busy"`
	// BusyRatio is busy time over elapsed wall time.
	BusyRatio      float64 `json:"busyRatio"                yaml:"busyRatio"`
	Entries        uint64  `json:"entries"                  yaml:"entries"`
	Unmatched      uint64  `json:"unmatched"                yaml:"unmatched"`
	ProfilerBegins uint64  `json:"profilerBegins,omitempty" yaml:"profilerBegins,omitempty"`
	ProfilerEnds   uint64  `json:"profilerEnds,omitempty"   yaml:"profilerEnds,omitempty"`
	ID             uint32  `json:"id"                       yaml:"id"`
}

func newBudgetReport(b *budget.Budget, elapsed time.Duration, counter *regionCounter) budgetReport {
	s := b.Stats()
	begins, ends := counter.counts(s.Name)

	var ratio float64
	if elapsed > 0 {
		ratio = float64(s.Busy) / float64(elapsed)
	}

	return budgetReport{
		Name:           s.Name,
		ID:             b.ID(),
		Busy:           s.Busy.String(),
		BusyRatio:      ratio,
		Entries:        s.Entries,
		Unmatched:      s.Unmatched,
		ProfilerBegins: begins,
		ProfilerEnds:   ends,
	}
}

func writeReport(w io.Writer, format string, r *report) error {
	var (
		out []byte
		err error
	)

	switch strings.ToLower(format) {
	case reportYAML:
		out, err = yaml.Marshal(r)
	case reportJSON:
		out, err = json.MarshalIndent(r, "", "  ")
		out = append(out, '\n')
	default:
		return fmt.Errorf("%w: report format %q", errInvalidArgument, format)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", errWriteReport, err)
	}

	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("%w: %w", errWriteReport, err)
	}

	return nil
}
