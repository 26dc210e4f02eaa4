package calendar

import (
	"context"
	"fmt"
	"time"

	"roomdesk/models"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleSync implements Sync against the Google Calendar API. Every call is
// bounded by Timeout so a slow calendar can never block an availability query.
type GoogleSync struct {
	service  *gcal.Service
	location *time.Location
	timeout  time.Duration
}

// NewGoogleSync builds a calendar adapter from a service-account credentials
// file. The timezone governs how event times map onto business-day minutes.
func NewGoogleSync(ctx context.Context, credentialsFile, timezone string, timeout time.Duration) (*GoogleSync, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build google calendar service: %w", err)
	}
	return &GoogleSync{service: svc, location: loc, timeout: timeout}, nil
}

// BusyIntervals lists the calendar's events for the date and converts them to
// busy intervals in minutes from midnight. All-day events block the whole day.
func (g *GoogleSync) BusyIntervals(ctx context.Context, calendarID, date string) ([]models.BusyInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	dayStart, err := time.ParseInLocation("2006-01-02", date, g.location)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	events, err := g.service.Events.List(calendarID).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events for calendar %s: %w", calendarID, err)
	}

	var intervals []models.BusyInterval
	for _, ev := range events.Items {
		if ev.Status == "cancelled" {
			continue
		}
		if ev.Start == nil || ev.End == nil {
			continue
		}
		// All-day events carry Date instead of DateTime.
		if ev.Start.DateTime == "" {
			intervals = append(intervals, models.BusyInterval{
				Start:  0,
				End:    24 * 60,
				Source: models.BusySourceExternal,
			})
			continue
		}
		start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil {
			continue
		}
		startMin := clampToDay(start.In(g.location), dayStart)
		endMin := clampToDay(end.In(g.location), dayStart)
		if endMin <= startMin {
			continue
		}
		intervals = append(intervals, models.BusyInterval{
			Start:  startMin,
			End:    endMin,
			Source: models.BusySourceExternal,
		})
	}
	return intervals, nil
}

// CreateEvent inserts an event mirroring a booking and returns its id.
func (g *GoogleSync) CreateEvent(ctx context.Context, calendarID, date string, start, end int, title, description string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	event := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       g.eventTime(date, start),
		End:         g.eventTime(date, end),
	}
	created, err := g.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event on calendar %s: %w", calendarID, err)
	}
	return created.Id, nil
}

// UpdateEvent patches an existing mirrored event.
func (g *GoogleSync) UpdateEvent(ctx context.Context, calendarID, eventID, date string, start, end int, title, description string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	patch := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       g.eventTime(date, start),
		End:         g.eventTime(date, end),
	}
	if _, err := g.service.Events.Patch(calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update event %s on calendar %s: %w", eventID, calendarID, err)
	}
	return nil
}

// DeleteEvent removes a mirrored event.
func (g *GoogleSync) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.service.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s on calendar %s: %w", eventID, calendarID, err)
	}
	return nil
}

func (g *GoogleSync) eventTime(date string, minutes int) *gcal.EventDateTime {
	day, _ := time.ParseInLocation("2006-01-02", date, g.location)
	t := day.Add(time.Duration(minutes) * time.Minute)
	return &gcal.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: g.location.String()}
}

// clampToDay converts an absolute time to minutes from the given midnight,
// clamped to [0, 1440].
func clampToDay(t, dayStart time.Time) int {
	minutes := int(t.Sub(dayStart) / time.Minute)
	if minutes < 0 {
		return 0
	}
	if minutes > 24*60 {
		return 24 * 60
	}
	return minutes
}
