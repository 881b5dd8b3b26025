package reconcile

import (
	"fmt"
	"strings"
	"time"

	"db-compare/core/utils"
)

// Config holds the comparison settings shared by every job.
type Config struct {
	// Limit is the window size: rows per timestamp window, id span per id window.
	Limit int `mapstructure:"limit" default:"100"`
	// SampleSize caps id-descending scans. Zero scans whole tables.
	SampleSize int64 `mapstructure:"by_id_sample_size" default:"0"`
	// Jobs to run, in order. Empty runs the default list.
	Jobs []string `mapstructure:"jobs" default:""`
	// Tables restricts discovery to these tables. Empty allows every table.
	Tables []string `mapstructure:"tables" default:""`
	// Cutoff is the upper timestamp for timestamp jobs. Empty means now.
	Cutoff string `mapstructure:"tm_cutoff" default:""`
	// Differ is the row differ (char, line).
	Differ string `mapstructure:"differ" default:"char"`
	// Color renders diffs with ANSI styling.
	Color bool `mapstructure:"color" default:"false"`
	// FetchTimeoutSeconds bounds each dual fetch. Zero disables it.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"60"`
	// Progress shows progress bars for id scans.
	Progress bool `mapstructure:"progress" default:"false"`
}

// FetchTimeout returns the per-fetch timeout.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// TableList returns the configured tables with blanks removed.
func (c Config) TableList() []string {
	var out []string
	for _, t := range c.Tables {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseCutoff resolves the configured cutoff, defaulting to now.
func (c Config) ParseCutoff(now time.Time) (time.Time, error) {
	if strings.TrimSpace(c.Cutoff) == "" {
		return now.UTC(), nil
	}
	ts, ok := utils.ToTime(strings.TrimSpace(c.Cutoff))
	if !ok {
		return time.Time{}, fmt.Errorf("invalid tm_cutoff %q", c.Cutoff)
	}
	return ts, nil
}
