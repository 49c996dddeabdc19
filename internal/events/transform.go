// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/eventcsv/pkg/types"
)

const (
	// isoLayout is the row timestamp without its offset; the offset string
	// from the input is appended verbatim.
	isoLayout    = "2006-01-02T15:04:05"
	offsetLayout = "-07:00"
)

// Transformer converts accepted events into CSV rows.
type Transformer struct {
	// Layout is the Go time layout of the input timestamp.
	Layout string
	// DefaultOffset is used when an event has no timeOffset.
	DefaultOffset string
}

// NewTransformer returns a Transformer configured from cfg.
func NewTransformer(cfg types.ConvertConfig) Transformer {
	cfg = cfg.WithDefaults()
	return Transformer{Layout: cfg.TimestampLayout, DefaultOffset: cfg.DefaultOffset}
}

// Row converts a single event. A missing or unparsable timestamp, or a
// malformed offset, is an error.
func (t Transformer) Row(ev types.Event) (types.Row, error) {
	if !ev.HasTimestamp {
		return types.Row{}, fmt.Errorf("event %s (line %d): missing timestamp", ev.EventID, ev.Line)
	}
	// AM/PM markers only match in upper case.
	local, err := time.Parse(t.Layout, strings.ToUpper(strings.TrimSpace(ev.Timestamp)))
	if err != nil {
		return types.Row{}, fmt.Errorf("event %s (line %d): invalid timestamp %q: %w", ev.EventID, ev.Line, ev.Timestamp, err)
	}

	offset := t.DefaultOffset
	if ev.HasTimeOffset {
		offset = strings.TrimSpace(ev.TimeOffset)
	}
	zone, err := parseOffset(offset)
	if err != nil {
		return types.Row{}, fmt.Errorf("event %s (line %d): %w", ev.EventID, ev.Line, err)
	}

	folder, name := SplitPath(ev.File)
	at := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, zone)

	return types.Row{
		EventID:   ev.EventID,
		IDNumeric: ev.IDNumeric,
		Timestamp: local.Format(isoLayout) + offset,
		Action:    ev.Action,
		User:      ev.User,
		Folder:    folder,
		FileName:  name,
		IP:        ev.IPAddr,
		At:        at,
	}, nil
}

// Rows converts every event, stopping at the first error.
func (t Transformer) Rows(evs []types.Event) ([]types.Row, error) {
	rows := make([]types.Row, 0, len(evs))
	for _, ev := range evs {
		r, err := t.Row(ev)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// parseOffset validates a "+HH:MM" / "-HH:MM" string and returns a fixed zone.
func parseOffset(s string) (*time.Location, error) {
	if len(s) != len(offsetLayout) || (s[0] != '+' && s[0] != '-') {
		return nil, fmt.Errorf("invalid time offset %q: want ±HH:MM", s)
	}
	t, err := time.Parse(offsetLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid time offset %q: %w", s, err)
	}
	_, secs := t.Zone()
	return time.FixedZone(s, secs), nil
}

// SplitPath splits a slash-separated path into directory and base name the
// way POSIX dirname/basename do for non-trailing-slash paths: "a/b" gives
// ("a", "b"), "b" gives ("", "b") and "/b" gives ("/", "b").
func SplitPath(p string) (dir, base string) {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	dir, base = p[:i+1], p[i+1:]
	if strings.Trim(dir, "/") != "" {
		dir = strings.TrimRight(dir, "/")
	}
	return dir, base
}
