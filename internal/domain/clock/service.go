package clock

import (
	"context"
	"time"
)

type ClockService interface {
	RecordEvent(ctx context.Context, req RecordRequest) (EventResponse, error)
	Today(ctx context.Context) (TodayResponse, error)
	ListForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]EventResponse, error)
}
