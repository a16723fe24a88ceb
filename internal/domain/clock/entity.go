package clock

import (
	"sort"
	"time"
)

type EventType string

const (
	EventClockIn  EventType = "CLOCK_IN"
	EventClockOut EventType = "CLOCK_OUT"
	EventBreakIn  EventType = "BREAK_IN"
	EventBreakOut EventType = "BREAK_OUT"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventClockIn, EventClockOut, EventBreakIn, EventBreakOut:
		return true
	}
	return false
}

type Source string

const (
	SourceMobileWeb  Source = "MOBILE_WEB"
	SourceDesktopWeb Source = "DESKTOP_WEB"
	SourceMobileApp  Source = "MOBILE_APP"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceMobileWeb, SourceDesktopWeb, SourceMobileApp:
		return true
	}
	return false
}

// Event is an immutable attendance fact. Events are only ever appended.
type Event struct {
	ID         string
	TenantID   string
	EmployeeID string
	Type       EventType
	EventTime  time.Time
	Latitude   *float64
	Longitude  *float64
	PhotoPath  *string
	PlaceName  *string
	Source     Source
	DeviceInfo *string
	CreatedAt  time.Time
}

// Status is derived from the most recent event of the day.
type Status struct {
	IsClockedIn bool
	IsOnBreak   bool
}

// DeriveStatus looks only at the latest event by time. Sequences are not
// validated: two CLOCK_IN events in a row still read as clocked in.
func DeriveStatus(events []Event) Status {
	latest, ok := Latest(events)
	if !ok {
		return Status{}
	}
	switch latest.Type {
	case EventClockIn, EventBreakOut:
		return Status{IsClockedIn: true}
	case EventBreakIn:
		return Status{IsClockedIn: true, IsOnBreak: true}
	default:
		return Status{}
	}
}

// Latest returns the event with the greatest EventTime. Ties keep the later
// element in the slice.
func Latest(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	latest := events[0]
	for _, e := range events[1:] {
		if !e.EventTime.Before(latest.EventTime) {
			latest = e
		}
	}
	return latest, true
}

// SortByTime orders events oldest first.
func SortByTime(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventTime.Before(events[j].EventTime)
	})
}
