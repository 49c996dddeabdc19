// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package events

import (
	"github.com/pdiddy/eventcsv/internal/log"
	"github.com/pdiddy/eventcsv/pkg/types"
)

// Filter keeps events in input order, dropping duplicates and events whose
// activity has no mapping. An event with a null activity is kept with an
// empty action; one without an activity key is unmapped. An eventId counts
// as seen only once its event is accepted, so a dropped unmapped event does
// not shadow a later valid one. known holds IDs accepted by earlier runs;
// it may be nil.
func Filter(evs []types.Event, mapping types.ActionMapping, known map[types.EventKey]bool) ([]types.Event, types.DroppedEvents) {
	var dropped types.DroppedEvents
	seen := make(map[types.EventKey]bool, len(evs))
	kept := make([]types.Event, 0, len(evs))

	for _, ev := range evs {
		key := ev.Key()
		if seen[key] || known[key] {
			dropped.Add(types.DropDuplicate)
			log.Debugf("line %d: duplicate eventId %s", ev.Line, ev.EventID)
			continue
		}

		switch {
		case ev.ActivityNull:
			ev.Action = ""
		case ev.HasActivity:
			action, ok := mapping.Lookup(ev.Activity)
			if !ok {
				dropped.Add(types.DropNoMapping)
				log.Debugf("line %d: no action mapping for %q", ev.Line, ev.Activity)
				continue
			}
			ev.Action = action
		default:
			dropped.Add(types.DropNoMapping)
			log.Debugf("line %d: no activity", ev.Line)
			continue
		}

		seen[key] = true
		kept = append(kept, ev)
	}
	return kept, dropped
}
