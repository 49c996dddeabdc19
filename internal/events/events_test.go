// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package events

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eventcsv/pkg/types"
)

// --- test helpers ---

const sampleInput = `{"eventId":"e1","activity":"createdDoc","user":"alice@acme.com","timestamp":"12/05/2015 05:16:40PM","timeOffset":"-05:00","file":"/docs/plan.txt","ipAddr":"10.0.0.1"}
{"eventId":"e2","activity":"viewedDoc","user":"bob@acme.com","timestamp":"1/2/2016 9:05:00AM","file":"notes.md","ipAddr":"10.0.0.2"}
not json at all

{"eventId":"e1","activity":"deletedDoc","user":"alice@acme.com","timestamp":"12/06/2015 10:00:00AM","file":"/docs/plan.txt"}
{"eventId":"e3","activity":"printedDoc","user":"carol@acme.com","timestamp":"12/07/2015 10:00:00AM","file":"/x"}
{"eventId":"e3","activity":"archived","user":"carol@acme.com","timestamp":"12/07/2015 11:00:00AM","timeOffset":"+01:00","file":"/x"}
["array"]
{"activity":"viewedDoc"}
`

func decodeString(t *testing.T, s string) ([]types.Event, DecodeSummary, string) {
	t.Helper()
	var w strings.Builder
	evs, sum, err := Decode(context.Background(), strings.NewReader(s), &w)
	require.NoError(t, err)
	return evs, sum, w.String()
}

// --- decode tests ---

func TestDecode(t *testing.T) {
	evs, sum, out := decodeString(t, sampleInput)

	assert.Equal(t, DecodeSummary{Read: 5, Unreadable: 3, Blank: 1}, sum)
	require.Len(t, evs, 5)
	assert.Contains(t, out, "Unable to read json item (line 3)")
	assert.Contains(t, out, "Unable to read json item (line 8)")
	assert.Contains(t, out, "Unable to read json item (line 9)")

	first := evs[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "e1", first.EventID)
	assert.Equal(t, "createdDoc", first.Activity)
	assert.True(t, first.HasActivity)
	assert.Equal(t, "-05:00", first.TimeOffset)
	assert.True(t, first.HasTimeOffset)
	assert.Equal(t, "10.0.0.1", first.IPAddr)

	assert.False(t, evs[1].HasTimeOffset)
	assert.Equal(t, 5, evs[2].Line)
}

func TestDecodeNumericAndNullFields(t *testing.T) {
	evs, sum, _ := decodeString(t, `{"eventId":42,"activity":null,"user":"u"}
{"eventId":null,"activity":"viewedDoc"}
`)
	assert.Equal(t, 1, sum.Read)
	assert.Equal(t, 1, sum.Unreadable)
	require.Len(t, evs, 1)
	assert.Equal(t, "42", evs[0].EventID)
	assert.True(t, evs[0].IDNumeric)
	assert.True(t, evs[0].HasActivity)
	assert.True(t, evs[0].ActivityNull)
}

func TestDecodeMissingActivity(t *testing.T) {
	evs, _, _ := decodeString(t, `{"eventId":"a","user":"u"}`+"\n")
	require.Len(t, evs, 1)
	assert.False(t, evs[0].HasActivity)
	assert.False(t, evs[0].ActivityNull)
}

func TestDecodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := strings.Repeat(`{"eventId":"x"}`+"\n", 2048)
	_, _, err := Decode(ctx, strings.NewReader(input), &strings.Builder{})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- filter tests ---

func TestFilter(t *testing.T) {
	evs, _, _ := decodeString(t, sampleInput)

	kept, dropped := Filter(evs, types.DefaultActionMapping(), nil)

	assert.Equal(t, types.DroppedEvents{NoActionMapping: 1, Duplicate: 1}, dropped)
	require.Len(t, kept, 3)
	assert.Equal(t, "e1", kept[0].EventID)
	assert.Equal(t, types.ActionAdd, kept[0].Action, "first occurrence wins")
	assert.Equal(t, types.ActionAccessed, kept[1].Action)
	assert.Equal(t, "e3", kept[2].EventID)
	assert.Equal(t, types.ActionRemove, kept[2].Action, "unmapped event does not mark its id as seen")
}

func TestFilterKnownIDs(t *testing.T) {
	evs := []types.Event{
		{EventID: "a", Activity: "createdDoc", HasActivity: true},
		{EventID: "b", Activity: "createdDoc", HasActivity: true},
	}
	kept, dropped := Filter(evs, types.DefaultActionMapping(), map[types.EventKey]bool{{ID: "a"}: true})

	require.Len(t, kept, 1)
	assert.Equal(t, "b", kept[0].EventID)
	assert.Equal(t, 1, dropped.Duplicate)
}

func TestFilterNumericAndStringIDsDiffer(t *testing.T) {
	evs, _, _ := decodeString(t, `{"eventId":42,"activity":"createdDoc"}
{"eventId":"42","activity":"createdDoc"}
{"eventId":42,"activity":"viewedDoc"}
`)
	kept, dropped := Filter(evs, types.DefaultActionMapping(), nil)

	require.Len(t, kept, 2)
	assert.True(t, kept[0].IDNumeric)
	assert.False(t, kept[1].IDNumeric)
	assert.Equal(t, 1, dropped.Duplicate)
}

func TestFilterKeepsNullActivity(t *testing.T) {
	evs, _, _ := decodeString(t, `{"eventId":"1","activity":null,"user":"u","timestamp":"1/1/2016 1:00:00AM"}
{"eventId":"1","activity":"createdDoc","user":"u","timestamp":"1/1/2016 2:00:00AM"}
`)
	kept, dropped := Filter(evs, types.DefaultActionMapping(), nil)

	require.Len(t, kept, 1)
	assert.Equal(t, types.Action(""), kept[0].Action)
	assert.Equal(t, types.DroppedEvents{Duplicate: 1}, dropped, "null activity marks its id as seen")

	rows, err := NewTransformer(types.ConvertConfig{}).Rows(kept)
	require.NoError(t, err)
	report := Summarize(len(evs), dropped, rows)
	assert.Equal(t, types.ActionCounts{}, report.Actions)
	assert.Equal(t, 1, report.UniqueUsers)
}

func TestFilterMissingActivity(t *testing.T) {
	evs := []types.Event{{EventID: "a"}}
	kept, dropped := Filter(evs, types.DefaultActionMapping(), nil)
	assert.Empty(t, kept)
	assert.Equal(t, 1, dropped.NoActionMapping)
}

func TestFilterCustomMapping(t *testing.T) {
	mapping := types.ActionMapping{Accessed: []string{"viewDoc", "viewedDoc"}}
	evs := []types.Event{
		{EventID: "a", Activity: "viewDoc", HasActivity: true},
		{EventID: "b", Activity: "createdDoc", HasActivity: true},
	}
	kept, dropped := Filter(evs, mapping, nil)
	require.Len(t, kept, 1)
	assert.Equal(t, types.ActionAccessed, kept[0].Action)
	assert.Equal(t, 1, dropped.NoActionMapping)
}

// --- transform tests ---

func TestTransformerRow(t *testing.T) {
	tr := NewTransformer(types.ConvertConfig{})

	tests := []struct {
		name    string
		ev      types.Event
		want    types.Row
		wantErr string
	}{
		{
			name: "pm timestamp with offset",
			ev: types.Event{
				EventID: "e1", Action: types.ActionAdd, User: "alice",
				Timestamp: "12/05/2015 05:16:40PM", HasTimestamp: true,
				TimeOffset: "-05:00", HasTimeOffset: true,
				File: "/docs/plan.txt", IPAddr: "10.0.0.1",
			},
			want: types.Row{
				EventID: "e1", Timestamp: "2015-12-05T17:16:40-05:00", Action: types.ActionAdd,
				User: "alice", Folder: "/docs", FileName: "plan.txt", IP: "10.0.0.1",
			},
		},
		{
			name: "single digit fields and default offset",
			ev: types.Event{
				EventID: "e2", Action: types.ActionAccessed,
				Timestamp: "1/2/2016 9:05:00AM", HasTimestamp: true,
				File: "notes.md",
			},
			want: types.Row{
				EventID: "e2", Timestamp: "2016-01-02T09:05:00+00:00", Action: types.ActionAccessed,
				FileName: "notes.md",
			},
		},
		{
			name: "lower case meridiem",
			ev: types.Event{
				EventID: "e7", Action: types.ActionAdd,
				Timestamp: "12/05/2015 05:16:40pm", HasTimestamp: true,
			},
			want: types.Row{EventID: "e7", Timestamp: "2015-12-05T17:16:40+00:00", Action: types.ActionAdd},
		},
		{
			name: "midnight",
			ev: types.Event{
				EventID: "e3", Action: types.ActionRemove,
				Timestamp: "03/10/2016 12:00:01AM", HasTimestamp: true,
			},
			want: types.Row{EventID: "e3", Timestamp: "2016-03-10T00:00:01+00:00", Action: types.ActionRemove},
		},
		{
			name:    "missing timestamp",
			ev:      types.Event{EventID: "e4", Line: 4},
			wantErr: "event e4 (line 4): missing timestamp",
		},
		{
			name:    "invalid timestamp",
			ev:      types.Event{EventID: "e5", Timestamp: "2015-12-05 17:16:40", HasTimestamp: true},
			wantErr: "invalid timestamp",
		},
		{
			name: "invalid offset",
			ev: types.Event{
				EventID: "e6", Timestamp: "12/05/2015 05:16:40PM", HasTimestamp: true,
				TimeOffset: "EST", HasTimeOffset: true,
			},
			wantErr: "invalid time offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Row(tt.ev)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			got.At = got.At.UTC()
			tt.want.At = got.At
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformerRowInstant(t *testing.T) {
	tr := NewTransformer(types.ConvertConfig{})
	row, err := tr.Row(types.Event{
		EventID: "e", Timestamp: "12/05/2015 05:16:40PM", HasTimestamp: true,
		TimeOffset: "-05:00", HasTimeOffset: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2015-12-05T22:16:40Z", row.At.UTC().Format("2006-01-02T15:04:05Z07:00"))
}

func TestTransformerRowsStopsAtError(t *testing.T) {
	tr := NewTransformer(types.ConvertConfig{})
	_, err := tr.Rows([]types.Event{
		{EventID: "ok", Timestamp: "1/1/2016 1:00:00AM", HasTimestamp: true},
		{EventID: "bad", Line: 2},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event bad")
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in, dir, base string
	}{
		{"/a/b.txt", "/a", "b.txt"},
		{"/a/b/c.txt", "/a/b", "c.txt"},
		{"b.txt", "", "b.txt"},
		{"/b.txt", "/", "b.txt"},
		{"a//b.txt", "a", "b.txt"},
		{"//b.txt", "//", "b.txt"},
		{"/a/", "/a", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			dir, base := SplitPath(tt.in)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.base, base)
		})
	}
}

// --- stats tests ---

func TestSummarize(t *testing.T) {
	evs, sum, _ := decodeString(t, sampleInput)
	kept, dropped := Filter(evs, types.DefaultActionMapping(), nil)
	rows, err := NewTransformer(types.ConvertConfig{}).Rows(kept)
	require.NoError(t, err)

	report := Summarize(sum.Read, dropped, rows)

	assert.Equal(t, types.Report{
		LinesRead:           5,
		DroppedEventsCounts: 2,
		DroppedEvents:       types.DroppedEvents{NoActionMapping: 1, Duplicate: 1},
		UniqueUsers:         3,
		UniqueFiles:         3,
		StartDate:           "2015-12-05T17:16:40-05:00",
		EndDate:             "2016-01-02T09:05:00+00:00",
		Actions:             types.ActionCounts{Add: 1, Remove: 1, Accessed: 1},
	}, report)
}

func TestSummarizeComparesInstants(t *testing.T) {
	tr := NewTransformer(types.ConvertConfig{})
	rows, err := tr.Rows([]types.Event{
		// 10:00 at -05:00 is 15:00 UTC, later than 11:00 at +01:00 (10:00 UTC).
		{EventID: "a", Timestamp: "6/1/2016 10:00:00AM", HasTimestamp: true, TimeOffset: "-05:00", HasTimeOffset: true},
		{EventID: "b", Timestamp: "6/1/2016 11:00:00AM", HasTimestamp: true, TimeOffset: "+01:00", HasTimeOffset: true},
	})
	require.NoError(t, err)

	report := Summarize(2, types.DroppedEvents{}, rows)
	assert.Equal(t, "2016-06-01T11:00:00+01:00", report.StartDate)
	assert.Equal(t, "2016-06-01T10:00:00-05:00", report.EndDate)
}

func TestSummarizeEmpty(t *testing.T) {
	report := Summarize(3, types.DroppedEvents{Duplicate: 3}, nil)
	assert.Equal(t, 3, report.DroppedEventsCounts)
	assert.Empty(t, report.StartDate)
	assert.Empty(t, report.EndDate)
	assert.Zero(t, report.UniqueUsers)
}
