// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DropReason names why an event was left out of the CSV.
type DropReason string

const (
	DropNoMapping DropReason = "No action mapping"
	DropDuplicate DropReason = "Duplicate"
)

// DroppedEvents counts dropped events per reason.
type DroppedEvents struct {
	NoActionMapping int `json:"No action mapping" yaml:"No action mapping"`
	Duplicate       int `json:"Duplicate" yaml:"Duplicate"`
}

// Total returns the number of dropped events.
func (d DroppedEvents) Total() int {
	return d.NoActionMapping + d.Duplicate
}

// Add increments the counter for reason.
func (d *DroppedEvents) Add(reason DropReason) {
	switch reason {
	case DropNoMapping:
		d.NoActionMapping++
	case DropDuplicate:
		d.Duplicate++
	}
}

// ActionCounts counts written rows per action.
type ActionCounts struct {
	Add      int `json:"ADD" yaml:"ADD"`
	Remove   int `json:"REMOVE" yaml:"REMOVE"`
	Accessed int `json:"ACCESSED" yaml:"ACCESSED"`
}

// Report is the statistics document printed after a conversion. Field
// order is the printed key order.
type Report struct {
	LinesRead           int           `json:"linesRead" yaml:"linesRead"`
	DroppedEventsCounts int           `json:"droppedEventsCounts" yaml:"droppedEventsCounts"`
	DroppedEvents       DroppedEvents `json:"droppedEvents" yaml:"droppedEvents"`
	UniqueUsers         int           `json:"uniqueUsers" yaml:"uniqueUsers"`
	UniqueFiles         int           `json:"uniqueFiles" yaml:"uniqueFiles"`
	StartDate           string        `json:"startDate" yaml:"startDate"`
	EndDate             string        `json:"endDate" yaml:"endDate"`
	Actions             ActionCounts  `json:"actions" yaml:"actions"`
}

// Run is a conversion recorded in the run store.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	JSONPath  string    `json:"json_path" yaml:"json_path"`
	CSVPath   string    `json:"csv_path" yaml:"csv_path"`
	// Written counts CSV rows, including rows with an empty action.
	Written int    `json:"written" yaml:"written"`
	Report  Report `json:"report" yaml:"report"`
}
