package notify

import (
	"time"

	"github.com/ltzf/ltzfd/internal/types"
)

// Class partitions buffered events into the four notification classes the
// background worker batches separately on each tick.
type Class int

const (
	ClassOther Class = iota
	ClassAmbiguousMatch
	ClassEnumAdded
	ClassSonstigUnwrapped
)

func (c Class) String() string {
	switch c {
	case ClassAmbiguousMatch:
		return "AmbiguousMatch"
	case ClassEnumAdded:
		return "EnumAdded"
	case ClassSonstigUnwrapped:
		return "SonstigUnwrapped"
	default:
		return "Other"
	}
}

// Event is one actionable occurrence buffered by the sink until the next
// tick of the background worker.
type Event struct {
	Class     Class
	Message   string
	ApiIDs    []string
	Timestamp time.Time
}

// AmbiguousMatchEvent builds the event emitted whenever the candidate
// resolver returns more than one match.
func AmbiguousMatchEvent(entity string, apiIDs []types.ApiID, now time.Time) Event {
	ids := make([]string, len(apiIDs))
	for i, id := range apiIDs {
		ids[i] = id.String()
	}
	return Event{
		Class:     ClassAmbiguousMatch,
		Message:   entity + ": ambiguous match",
		ApiIDs:    ids,
		Timestamp: now,
	}
}

// EnumAddedEvent builds the event emitted when an enum replacement
// introduces a genuinely new vocabulary value.
func EnumAddedEvent(vocabulary, value string, now time.Time) Event {
	return Event{
		Class:     ClassEnumAdded,
		Message:   vocabulary + ": new value " + value,
		Timestamp: now,
	}
}

// SonstigUnwrappedEvent builds the event emitted when the identity guard
// falls back to the "sonstig" sentinel for an unknown enum value.
func SonstigUnwrappedEvent(apiID types.ApiID, objectKind, rawValue string, now time.Time) Event {
	return Event{
		Class:     ClassSonstigUnwrapped,
		Message:   objectKind + ": unknown value " + rawValue,
		ApiIDs:    []string{apiID.String()},
		Timestamp: now,
	}
}
