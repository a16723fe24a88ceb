package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/clock"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var clockEventColumns = []string{
	"id", "tenant_id", "employee_id", "event_type", "event_time", "latitude", "longitude",
	"photo_path", "place_name", "source", "device_info", "created_at",
}

type clockEventRepositoryImpl struct {
	db *database.DB
}

func NewClockEventRepository(db *database.DB) clock.EventRepository {
	return &clockEventRepositoryImpl{db: db}
}

func scanClockEvent(row pgx.Row) (clock.Event, error) {
	var e clock.Event
	err := row.Scan(
		&e.ID, &e.TenantID, &e.EmployeeID, &e.Type, &e.EventTime, &e.Latitude, &e.Longitude,
		&e.PhotoPath, &e.PlaceName, &e.Source, &e.DeviceInfo, &e.CreatedAt,
	)
	return e, err
}

// Create implements clock.EventRepository.
func (r *clockEventRepositoryImpl) Create(ctx context.Context, e clock.Event) (clock.Event, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return clock.Event{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	created, err := scanClockEvent(scope.Insert(ctx, TableClockEvents, Values{
		"id":          e.ID,
		"employee_id": e.EmployeeID,
		"event_type":  e.Type,
		"event_time":  e.EventTime.UTC(),
		"latitude":    e.Latitude,
		"longitude":   e.Longitude,
		"photo_path":  e.PhotoPath,
		"place_name":  e.PlaceName,
		"source":      e.Source,
		"device_info": e.DeviceInfo,
	}, clockEventColumns...))
	if err != nil {
		return clock.Event{}, fmt.Errorf("failed to record clock event: %w", err)
	}
	return created, nil
}

// ListByEmployee implements clock.EventRepository for [from, to), oldest first.
func (r *clockEventRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]clock.Event, error) {
	scope, err := ScopeFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Select(ctx, TableClockEvents, clockEventColumns, []Cond{
		Eq("employee_id", employeeID),
		Gte("event_time", from.UTC()),
		Lt("event_time", to.UTC()),
	}, OrderBy("event_time", false))
	if err != nil {
		return nil, fmt.Errorf("failed to list clock events: %w", err)
	}
	defer rows.Close()

	var events []clock.Event
	for rows.Next() {
		e, err := scanClockEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
