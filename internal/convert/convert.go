// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the JSON-to-CSV conversion: it decodes the event
// file, filters and transforms the events, writes the CSV, optionally
// records the run, and produces the run report.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pdiddy/eventcsv/internal/events"
	"github.com/pdiddy/eventcsv/internal/log"
	"github.com/pdiddy/eventcsv/pkg/types"
)

// Recorder persists finished runs and remembers accepted event IDs across
// runs. runstore.Store implements it.
type Recorder interface {
	// KnownEventIDs returns every event ID accepted by an earlier run.
	KnownEventIDs(ctx context.Context) (map[types.EventKey]bool, error)

	// Record stores the run and its rows and returns the run ID.
	Record(ctx context.Context, run types.Run, rows []types.Row) (int64, error)
}

// Result holds the outcome of a conversion run.
type Result struct {
	Report types.Report
	// Written is the number of CSV rows, excluding the header.
	Written int
	// Unreadable is the number of input lines skipped as unreadable.
	Unreadable int
	// RunID is the run store ID, or 0 when no recorder is configured.
	RunID int64
}

// Converter turns an event file into a CSV file.
type Converter struct {
	cfg      types.ConvertConfig
	recorder Recorder
	status   io.Writer
	now      func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithRecorder records runs and drops events already seen by earlier runs.
func WithRecorder(r Recorder) Option {
	return func(c *Converter) { c.recorder = r }
}

// WithStatus sets the writer for per-line diagnostics (default os.Stderr).
func WithStatus(w io.Writer) Option {
	return func(c *Converter) { c.status = w }
}

// WithClock overrides the clock used to stamp recorded runs.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// New returns a Converter for cfg. Zero-valued config fields take their
// defaults.
func New(cfg types.ConvertConfig, opts ...Option) *Converter {
	c := &Converter{
		cfg:    cfg.WithDefaults(),
		status: os.Stderr,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ConvertFile reads jsonPath and writes csvPath. The CSV is only created
// when every accepted event converts cleanly.
func (c *Converter) ConvertFile(ctx context.Context, jsonPath, csvPath string) (Result, error) {
	started := c.now()

	f, err := os.Open(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", jsonPath, err)
	}
	defer f.Close()

	evs, decoded, err := events.Decode(ctx, f, c.status)
	if err != nil {
		return Result{}, fmt.Errorf("decoding %s: %w", jsonPath, err)
	}
	log.Debugf("decoded %d events from %s (%d blank lines)", decoded.Read, jsonPath, decoded.Blank)
	if decoded.Unreadable > 0 {
		log.Warnf("skipped %d unreadable lines in %s", decoded.Unreadable, jsonPath)
	}

	var known map[types.EventKey]bool
	if c.recorder != nil {
		known, err = c.recorder.KnownEventIDs(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("loading known event IDs: %w", err)
		}
		log.Debugf("loaded %d known event IDs", len(known))
	}

	kept, dropped := events.Filter(evs, c.cfg.Actions, known)

	rows, err := events.NewTransformer(c.cfg).Rows(kept)
	if err != nil {
		return Result{}, err
	}

	if err := writeFileAtomic(csvPath, func(w io.Writer) error {
		return WriteRows(w, rows)
	}); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", csvPath, err)
	}
	log.Infof("wrote %d rows to %s", len(rows), csvPath)

	result := Result{
		Report:     events.Summarize(decoded.Read, dropped, rows),
		Written:    len(rows),
		Unreadable: decoded.Unreadable,
	}

	if c.recorder != nil {
		run := types.Run{
			StartedAt: started.UTC(),
			JSONPath:  jsonPath,
			CSVPath:   csvPath,
			Written:   len(rows),
			Report:    result.Report,
		}
		id, err := c.recorder.Record(ctx, run, rows)
		if err != nil {
			return result, fmt.Errorf("recording run: %w", err)
		}
		result.RunID = id
		log.Debugf("recorded run %d", id)
	}

	return result, nil
}
