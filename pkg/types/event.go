// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Action is the normalized activity reported in the CSV.
type Action string

const (
	ActionAdd      Action = "ADD"
	ActionRemove   Action = "REMOVE"
	ActionAccessed Action = "ACCESSED"
)

// EventKey identifies an event for duplicate detection. A JSON number and
// a JSON string with the same text are different IDs.
type EventKey struct {
	ID      string
	Numeric bool
}

// Event is one decoded line of the input file. Optional fields carry a
// presence flag so that an absent key can be told apart from an empty one.
type Event struct {
	// Line is the 1-based line number in the input file.
	Line int `json:"line" yaml:"line"`

	// EventID identifies the event; repeated IDs are duplicates. Numeric
	// IDs keep their JSON literal text.
	EventID   string `json:"eventId" yaml:"eventId"`
	IDNumeric bool   `json:"-" yaml:"-"`

	// HasActivity reports that the key is present, null included.
	Activity     string `json:"activity" yaml:"activity"`
	HasActivity  bool   `json:"-" yaml:"-"`
	ActivityNull bool   `json:"-" yaml:"-"`

	// Action is set once the activity has been mapped. It stays empty for
	// a null activity.
	Action Action `json:"action,omitempty" yaml:"action,omitempty"`

	User string `json:"user" yaml:"user"`

	// Timestamp is the raw input timestamp (e.g. "12/05/2015 05:16:40PM").
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	HasTimestamp bool   `json:"-" yaml:"-"`

	// TimeOffset is the raw UTC offset (e.g. "-05:00").
	TimeOffset    string `json:"timeOffset" yaml:"timeOffset"`
	HasTimeOffset bool   `json:"-" yaml:"-"`

	// File is the full path of the document acted upon.
	File string `json:"file" yaml:"file"`

	IPAddr string `json:"ipAddr" yaml:"ipAddr"`
}

// Key returns the duplicate-detection identity of the event.
func (e Event) Key() EventKey {
	return EventKey{ID: e.EventID, Numeric: e.IDNumeric}
}

// Row is one record of the output CSV.
type Row struct {
	EventID   string `json:"event_id" yaml:"event_id"`
	IDNumeric bool   `json:"-" yaml:"-"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Action    Action `json:"action" yaml:"action"`
	User      string `json:"user" yaml:"user"`
	Folder    string `json:"folder" yaml:"folder"`
	FileName  string `json:"file_name" yaml:"file_name"`
	IP        string `json:"ip" yaml:"ip"`

	// At is the parsed instant of Timestamp, used for reporting.
	At time.Time `json:"-" yaml:"-"`
}

// Key returns the duplicate-detection identity of the row's event.
func (r Row) Key() EventKey {
	return EventKey{ID: r.EventID, Numeric: r.IDNumeric}
}

// CSVHeader is the header record of the output file.
var CSVHeader = []string{"Timestamp", "Action", "User", "Folder", "File Name", "IP"}

// Record returns the row's fields in CSVHeader order.
func (r Row) Record() []string {
	return []string{r.Timestamp, string(r.Action), r.User, r.Folder, r.FileName, r.IP}
}

// Path returns the full file path the row refers to.
func (r Row) Path() string {
	switch {
	case r.Folder == "":
		return r.FileName
	case r.Folder == "/" || r.Folder[len(r.Folder)-1] == '/':
		return r.Folder + r.FileName
	default:
		return r.Folder + "/" + r.FileName
	}
}
