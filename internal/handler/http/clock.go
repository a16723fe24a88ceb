package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/clock"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type ClockHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListForEmployee(w http.ResponseWriter, r *http.Request)
}

type ClockHandlerImpl struct {
	clockService clock.ClockService
	location     *time.Location
}

var _ ClockHandler = (*ClockHandlerImpl)(nil)

func NewClockHandler(clockService clock.ClockService, location *time.Location) *ClockHandlerImpl {
	if location == nil {
		location = time.UTC
	}
	return &ClockHandlerImpl{clockService: clockService, location: location}
}

// Record implements ClockHandler. Accepts JSON (photo as data URL) or
// multipart with a "data" JSON field and an optional "photo" file.
func (c *ClockHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req clock.RecordRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		// Leave room for the form fields on top of the photo itself.
		if err := r.ParseMultipartForm(file.MaxPhotoSize + 1<<20); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		dataJSON := r.FormValue("data")
		if dataJSON == "" {
			response.BadRequest(w, "Field 'data' is required", nil)
			return
		}
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			response.BadRequest(w, "Invalid JSON in 'data' field", nil)
			return
		}

		photo, header, err := r.FormFile("photo")
		if err == nil {
			defer photo.Close()
			if header.Size > file.MaxPhotoSize {
				response.HandleError(w, clock.ErrPhotoTooLarge)
				return
			}
			data, err := io.ReadAll(io.LimitReader(photo, file.MaxPhotoSize+1))
			if err != nil {
				response.BadRequest(w, "Invalid file upload", nil)
				return
			}
			req.PhotoBytes = data
		} else if !errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, 2*file.MaxPhotoSize)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	event, err := c.clockService.RecordEvent(r.Context(), req)
	if err != nil {
		slog.Error("Record clock event service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Clock event recorded", event)
}

// Today implements ClockHandler.
func (c *ClockHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	today, err := c.clockService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, today)
}

// ListForEmployee implements ClockHandler. from and to are inclusive
// YYYY-MM-DD dates in the business timezone and default to today.
func (c *ClockHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	from, to, err := c.dateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	events, err := c.clockService.ListForEmployee(r.Context(), chi.URLParam(r, "employeeID"), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, events, &response.Meta{TotalItems: len(events)})
}

func (c *ClockHandlerImpl) dateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	now := time.Now().In(c.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.location)

	var errs validator.ValidationErrors
	parse := func(field, raw string) time.Time {
		if raw == "" {
			return today
		}
		d, err := time.ParseInLocation(validator.DateLayout, raw, c.location)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be in YYYY-MM-DD format"})
		}
		return d
	}
	from := parse("from", fromRaw)
	to := parse("to", toRaw)
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return from, to.AddDate(0, 0, 1), nil
}
