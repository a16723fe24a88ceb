package clock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/clock"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/geocode"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/service/file"
)

// EventClockRecorded is the SSE event name for newly appended clock events.
const EventClockRecorded = "clock_event"

// Publisher fans new events out to live team views.
type Publisher interface {
	Publish(tenantID string, event sse.Event)
}

type ClockServiceImpl struct {
	events    clock.EventRepository
	employees employee.EmployeeRepository
	files     file.FileService
	geocoder  geocode.Resolver
	publisher Publisher
	location  *time.Location
	now       func() time.Time
}

var _ clock.ClockService = (*ClockServiceImpl)(nil)

func NewClockService(
	events clock.EventRepository,
	employees employee.EmployeeRepository,
	files file.FileService,
	geocoder geocode.Resolver,
	publisher Publisher,
	location *time.Location,
) *ClockServiceImpl {
	if location == nil {
		location = time.UTC
	}
	return &ClockServiceImpl{
		events:    events,
		employees: employees,
		files:     files,
		geocoder:  geocoder,
		publisher: publisher,
		location:  location,
		now:       time.Now,
	}
}

// RecordEvent implements clock.ClockService. Events are appended without
// checking the previous event type.
func (s *ClockServiceImpl) RecordEvent(ctx context.Context, req clock.RecordRequest) (clock.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.EventResponse{}, err
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return clock.EventResponse{}, session.ErrNoTenantContext
	}
	if !sess.HasEmployee() {
		return clock.EventResponse{}, employee.ErrNoLinkedEmployee
	}
	employeeID := *sess.EmployeeID
	eventTime := s.now().UTC()

	var photoPath *string
	if req.HasPhoto() {
		photo := req.PhotoBytes
		if len(photo) == 0 {
			decoded, err := file.DecodeDataURL(req.Photo)
			if err != nil {
				return clock.EventResponse{}, err
			}
			photo = decoded
		}
		stored, err := s.files.UploadClockPhoto(ctx, sess.TenantID, employeeID, req.Type, eventTime.In(s.location), photo)
		if err != nil {
			return clock.EventResponse{}, err
		}
		photoPath = &stored
	}

	var placeName *string
	if req.HasLocation() {
		name := s.geocoder.Resolve(ctx, *req.Latitude, *req.Longitude)
		placeName = &name
	}

	event, err := s.events.Create(ctx, clock.Event{
		EmployeeID: employeeID,
		Type:       req.Type,
		EventTime:  eventTime,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		PhotoPath:  photoPath,
		PlaceName:  placeName,
		Source:     req.Source,
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		if photoPath != nil {
			if delErr := s.files.DeleteFile(ctx, *photoPath); delErr != nil {
				slog.Warn("Failed to remove orphaned clock photo", "path", *photoPath, "error", delErr)
			}
		}
		return clock.EventResponse{}, fmt.Errorf("failed to record clock event: %w", err)
	}

	resp := s.toResponse(ctx, event)
	if s.publisher != nil {
		s.publisher.Publish(sess.TenantID, sse.Event{Event: EventClockRecorded, Data: resp})
	}

	slog.Info("Clock event recorded", "employee_id", employeeID, "type", event.Type, "has_photo", photoPath != nil)
	return resp, nil
}

// Today implements clock.ClockService. The day is taken in the configured
// business timezone.
func (s *ClockServiceImpl) Today(ctx context.Context) (clock.TodayResponse, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return clock.TodayResponse{}, session.ErrNoTenantContext
	}
	if !sess.HasEmployee() {
		return clock.TodayResponse{}, employee.ErrNoLinkedEmployee
	}

	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	events, err := s.events.ListByEmployee(ctx, *sess.EmployeeID, start, end)
	if err != nil {
		return clock.TodayResponse{}, fmt.Errorf("failed to list today's clock events: %w", err)
	}
	clock.SortByTime(events)

	status := clock.DeriveStatus(events)
	resp := clock.TodayResponse{
		Date:        start.Format("2006-01-02"),
		IsClockedIn: status.IsClockedIn,
		IsOnBreak:   status.IsOnBreak,
		Events:      s.toResponses(ctx, events),
	}
	if latest, ok := clock.Latest(events); ok {
		last := s.toResponse(ctx, latest)
		resp.LastEvent = &last
	}
	return resp, nil
}

// ListForEmployee implements clock.ClockService for team views.
func (s *ClockServiceImpl) ListForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]clock.EventResponse, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoTenantContext
	}
	if !user.HasPermission(sess.Role, user.PermissionAttendanceViewAll) {
		return nil, user.ErrInsufficientPermissions
	}
	if !from.Before(to) {
		return nil, validator.ValidationErrors{{Field: "to", Message: "to must be after from"}}
	}

	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	events, err := s.events.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock events: %w", err)
	}
	clock.SortByTime(events)
	return s.toResponses(ctx, events), nil
}

func (s *ClockServiceImpl) toResponses(ctx context.Context, events []clock.Event) []clock.EventResponse {
	resp := make([]clock.EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, s.toResponse(ctx, e))
	}
	return resp
}

func (s *ClockServiceImpl) toResponse(ctx context.Context, e clock.Event) clock.EventResponse {
	resp := clock.EventResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Type:       e.Type,
		EventTime:  e.EventTime,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		PlaceName:  e.PlaceName,
		Source:     e.Source,
		DeviceInfo: e.DeviceInfo,
	}
	if e.PhotoPath != nil {
		url, err := s.files.GetFileURL(ctx, *e.PhotoPath)
		if err != nil {
			slog.Warn("Failed to resolve photo URL", "path", *e.PhotoPath, "error", err)
		} else {
			resp.PhotoURL = &url
		}
	}
	return resp
}
