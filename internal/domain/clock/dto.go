package clock

import (
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
)

type RecordRequest struct {
	Type       EventType `json:"type"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	Source     Source    `json:"source"`
	DeviceInfo *string   `json:"device_info"`

	// Photo may be a data URL ("data:image/jpeg;base64,...") in JSON bodies.
	Photo string `json:"photo,omitempty"`

	// Set from multipart uploads
	PhotoBytes []byte `json:"-"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Type.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of CLOCK_IN, CLOCK_OUT, BREAK_IN, BREAK_OUT",
		})
	}
	if r.Source == "" {
		r.Source = SourceMobileWeb
	}
	if !r.Source.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: "source must be one of MOBILE_WEB, DESKTOP_WEB, MOBILE_APP",
		})
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	} else if r.HasLocation() && !validator.IsValidCoordinate(*r.Latitude, *r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude must be within [-90, 90] and longitude within [-180, 180]",
		})
	}
	if r.DeviceInfo != nil && len(*r.DeviceInfo) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "device_info",
			Message: "device_info must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasLocation reports whether both coordinates were captured.
func (r *RecordRequest) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// HasPhoto reports whether any photo evidence was attached.
func (r *RecordRequest) HasPhoto() bool {
	return r.Photo != "" || len(r.PhotoBytes) > 0
}

type EventResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Type       EventType `json:"type"`
	EventTime  time.Time `json:"event_time"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	PlaceName  *string   `json:"place_name,omitempty"`
	Source     Source    `json:"source"`
	DeviceInfo *string   `json:"device_info,omitempty"`
}

type TodayResponse struct {
	Date        string          `json:"date"`
	IsClockedIn bool            `json:"is_clocked_in"`
	IsOnBreak   bool            `json:"is_on_break"`
	LastEvent   *EventResponse  `json:"last_event"`
	Events      []EventResponse `json:"events"`
}
