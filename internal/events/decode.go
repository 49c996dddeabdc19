// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package events decodes newline-delimited activity events, filters out
// duplicates and unmapped activities, and turns accepted events into CSV
// rows and a run report.
package events

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/eventcsv/internal/log"
	"github.com/pdiddy/eventcsv/pkg/types"
)

// maxLineSize bounds a single input line.
const maxLineSize = 4 << 20

// DecodeSummary holds line counts from a decode pass.
type DecodeSummary struct {
	// Read is the number of lines decoded into events.
	Read int
	// Unreadable is the number of non-blank lines that were skipped.
	Unreadable int
	// Blank is the number of empty or whitespace-only lines.
	Blank int
}

// Decode reads one JSON object per line from r. Lines that are not JSON
// objects, or that lack an eventId, are reported to w and skipped.
func Decode(ctx context.Context, r io.Reader, w io.Writer) ([]types.Event, DecodeSummary, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		events  []types.Event
		summary DecodeSummary
		line    int
	)
	for sc.Scan() {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return events, summary, err
			}
		}

		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			summary.Blank++
			continue
		}

		ev, ok := decodeLine(raw)
		if !ok {
			fmt.Fprintf(w, "Unable to read json item (line %d)\n", line)
			log.WithField("line", line).Debug("skipping unreadable line")
			summary.Unreadable++
			continue
		}
		ev.Line = line
		events = append(events, ev)
		summary.Read++
	}
	if err := sc.Err(); err != nil {
		return events, summary, fmt.Errorf("reading line %d: %w", line+1, err)
	}
	return events, summary, nil
}

// decodeLine extracts the event fields from a single JSON object.
func decodeLine(raw []byte) (types.Event, bool) {
	if !gjson.ValidBytes(raw) {
		return types.Event{}, false
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return types.Event{}, false
	}

	id := obj.Get("eventId")
	if !id.Exists() || id.Type == gjson.Null {
		return types.Event{}, false
	}

	ev := types.Event{EventID: id.String()}
	if id.Type == gjson.Number {
		ev.EventID, ev.IDNumeric = id.Raw, true
	}

	if act := obj.Get("activity"); act.Exists() {
		ev.HasActivity = true
		ev.ActivityNull = act.Type == gjson.Null
		ev.Activity = act.String()
	}
	ev.Timestamp, ev.HasTimestamp = field(obj, "timestamp")
	ev.TimeOffset, ev.HasTimeOffset = field(obj, "timeOffset")
	ev.File, _ = field(obj, "file")
	ev.User, _ = field(obj, "user")
	ev.IPAddr, _ = field(obj, "ipAddr")
	return ev, true
}

// field returns the string form of key and whether it is present and
// non-null.
func field(obj gjson.Result, key string) (string, bool) {
	v := obj.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return "", false
	}
	return v.String(), true
}
