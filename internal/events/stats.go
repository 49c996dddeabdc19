// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package events

import (
	"time"

	"github.com/pdiddy/eventcsv/pkg/types"
)

// reportDateLayout renders start and end dates with their own offset.
const reportDateLayout = "2006-01-02T15:04:05-07:00"

// Summarize builds the run report from the number of decoded events, the
// drop counters and the rows that were written.
func Summarize(linesRead int, dropped types.DroppedEvents, rows []types.Row) types.Report {
	report := types.Report{
		LinesRead:           linesRead,
		DroppedEventsCounts: dropped.Total(),
		DroppedEvents:       dropped,
	}

	users := make(map[string]struct{})
	files := make(map[string]struct{})
	var first, last time.Time

	for i, r := range rows {
		users[r.User] = struct{}{}
		files[r.Path()] = struct{}{}

		switch r.Action {
		case types.ActionAdd:
			report.Actions.Add++
		case types.ActionRemove:
			report.Actions.Remove++
		case types.ActionAccessed:
			report.Actions.Accessed++
		}

		if i == 0 || r.At.Before(first) {
			first = r.At
		}
		if i == 0 || r.At.After(last) {
			last = r.At
		}
	}

	report.UniqueUsers = len(users)
	report.UniqueFiles = len(files)
	if len(rows) > 0 {
		report.StartDate = first.Format(reportDateLayout)
		report.EndDate = last.Format(reportDateLayout)
	}
	return report
}
