// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default conversion settings, matching the reference event format.
const (
	DefaultTimestampLayout = "1/2/2006 3:04:05PM"
	DefaultOffset          = "+00:00"
)

// StatsFormat selects how the run report is printed.
type StatsFormat string

const (
	StatsJSON StatsFormat = "json"
	StatsYAML StatsFormat = "yaml"
)

// ActionMapping lists the raw activity names that map to each action.
type ActionMapping struct {
	// Add lists activities reported as ADD (e.g. "createdDoc").
	Add []string `json:"add" yaml:"add" mapstructure:"add"`

	// Remove lists activities reported as REMOVE (e.g. "deletedDoc").
	Remove []string `json:"remove" yaml:"remove" mapstructure:"remove"`

	// Accessed lists activities reported as ACCESSED (e.g. "viewedDoc").
	Accessed []string `json:"accessed" yaml:"accessed" mapstructure:"accessed"`
}

// DefaultActionMapping returns the mapping used when no configuration
// overrides it.
func DefaultActionMapping() ActionMapping {
	return ActionMapping{
		Add:      []string{"createdDoc", "addedText", "changedText"},
		Remove:   []string{"deletedDoc", "deletedText", "archived"},
		Accessed: []string{"viewedDoc"},
	}
}

// Lookup returns the action for a raw activity name. Earlier groups win
// when an activity is listed more than once.
func (m ActionMapping) Lookup(activity string) (Action, bool) {
	groups := []struct {
		action Action
		names  []string
	}{
		{ActionAdd, m.Add},
		{ActionRemove, m.Remove},
		{ActionAccessed, m.Accessed},
	}
	for _, g := range groups {
		for _, n := range g.names {
			if n == activity {
				return g.action, true
			}
		}
	}
	return "", false
}

// ConvertConfig holds settings for a conversion run. It is populated from
// the config file, EVENTCSV_* environment variables and command flags.
type ConvertConfig struct {
	// Actions maps raw activity names to report actions.
	Actions ActionMapping `json:"actions" yaml:"actions" mapstructure:"actions"`

	// TimestampLayout is the Go time layout of the input "timestamp" field.
	TimestampLayout string `json:"timestamp_layout" yaml:"timestamp_layout" mapstructure:"timestamp_layout"`

	// DefaultOffset is appended when an event carries no "timeOffset".
	DefaultOffset string `json:"default_offset" yaml:"default_offset" mapstructure:"default_offset"`

	// StatsFormat selects json or yaml for the printed report.
	StatsFormat StatsFormat `json:"stats_format" yaml:"stats_format" mapstructure:"stats_format"`

	// NoStats suppresses the printed report.
	NoStats bool `json:"no_stats" yaml:"no_stats" mapstructure:"no_stats"`

	// DB is an optional SQLite path for run history and cross-run dedup.
	DB string `json:"db,omitempty" yaml:"db,omitempty" mapstructure:"db"`
}

// DefaultConvertConfig returns a config with every field at its default.
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		Actions:         DefaultActionMapping(),
		TimestampLayout: DefaultTimestampLayout,
		DefaultOffset:   DefaultOffset,
		StatsFormat:     StatsJSON,
	}
}

// WithDefaults fills zero-valued fields from DefaultConvertConfig.
func (c ConvertConfig) WithDefaults() ConvertConfig {
	d := DefaultConvertConfig()
	if len(c.Actions.Add) == 0 && len(c.Actions.Remove) == 0 && len(c.Actions.Accessed) == 0 {
		c.Actions = d.Actions
	}
	if c.TimestampLayout == "" {
		c.TimestampLayout = d.TimestampLayout
	}
	if c.DefaultOffset == "" {
		c.DefaultOffset = d.DefaultOffset
	}
	if c.StatsFormat == "" {
		c.StatsFormat = d.StatsFormat
	}
	return c
}
