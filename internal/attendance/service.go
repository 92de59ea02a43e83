package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/core/events"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/store"
	"github.com/frahmantamala/office-management/internal/visibility"
)

type RepositoryAPI interface {
	All(ctx context.Context) ([]Record, error)
	Update(ctx context.Context, fn func(records *[]Record) error) error
}

type UserDirectory interface {
	Directory(ctx context.Context) (user.Directory, error)
}

type Service struct {
	repo      RepositoryAPI
	users     UserDirectory
	clock     internal.Clock
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		users:     users,
		clock:     internal.NewClock(nil),
		publisher: publisher,
		logger:    logger,
	}
}

// WithClock replaces the source of "now".
func (s *Service) WithClock(clock internal.Clock) *Service {
	s.clock = clock
	return s
}

func (s *Service) Today() string {
	return internal.FormatDate(s.clock())
}

// CheckIn opens today's record for username. It does nothing when a record
// for today already exists, checked out or not.
func (s *Service) CheckIn(ctx context.Context, username string) (bool, error) {
	now := s.clock()
	date, at := internal.FormatDate(now), internal.FormatTime(now)

	var created Record
	err := s.repo.Update(ctx, func(records *[]Record) error {
		if findFor(*records, username, date) >= 0 {
			return store.ErrSkipWrite
		}
		created = Record{
			ID:       uuid.NewString(),
			Username: username,
			Date:     date,
			TimeIn:   at,
		}
		*records = append(*records, created)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check in: %w", err)
	}
	if created.ID == "" {
		s.logger.DebugContext(ctx, "check-in ignored, already recorded", "username", username, "date", date)
		return false, nil
	}

	s.logger.InfoContext(ctx, "checked in", "username", username, "date", date, "time_in", at)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeAttendanceCheckedIn, username, created.ID, map[string]interface{}{
		"date":    date,
		"time_in": at,
	}))
	return true, nil
}

// CheckOut closes today's open record. Without one, or once closed, it does nothing.
func (s *Service) CheckOut(ctx context.Context, username string) (bool, error) {
	now := s.clock()
	date, at := internal.FormatDate(now), internal.FormatTime(now)

	var closed Record
	err := s.repo.Update(ctx, func(records *[]Record) error {
		i := findFor(*records, username, date)
		if i < 0 || (*records)[i].CheckedOut() {
			return store.ErrSkipWrite
		}
		r := &(*records)[i]
		hours, err := Hours(r.TimeIn, at)
		if err != nil {
			return err
		}
		r.TimeOut = at
		r.TotalHours = hours
		closed = *r
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check out: %w", err)
	}
	if closed.ID == "" {
		s.logger.DebugContext(ctx, "check-out ignored, no open record", "username", username, "date", date)
		return false, nil
	}

	s.logger.InfoContext(ctx, "checked out", "username", username, "date", date, "time_out", at, "total_hours", closed.TotalHours)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeAttendanceCheckedOut, username, closed.ID, map[string]interface{}{
		"date":        date,
		"time_out":    at,
		"total_hours": closed.TotalHours,
	}))
	return true, nil
}

// List returns the records viewer may see for the filter's day.
func (s *Service) List(ctx context.Context, viewer *user.User, f visibility.Filter) (AttendanceView, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return AttendanceView{}, fmt.Errorf("load attendance: %w", err)
	}
	dir, err := s.users.Directory(ctx)
	if err != nil {
		return AttendanceView{}, fmt.Errorf("load users: %w", err)
	}

	scope := visibility.ResolveOrEmpty(ctx, s.logger, viewer, dir, f)
	visible := visibility.Apply(records, scope, owner, func(r Record) bool {
		return visibility.MatchDate(r.Date, f.Date)
	})

	view := AttendanceView{
		Filter:  f,
		Records: visible,
		Members: membersVisibleTo(viewer, dir),
	}
	if i := findFor(records, viewer.Username, f.Date); i >= 0 {
		mine := records[i]
		view.Today = &mine
	}
	return view, nil
}

// Summarize counts present and checked-out users among the visible records.
func (s *Service) Summarize(ctx context.Context, viewer *user.User, f visibility.Filter) (Summary, error) {
	view, err := s.List(ctx, viewer, f)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, r := range view.Records {
		sum.Present++
		if r.CheckedOut() {
			sum.CheckedOut++
		}
	}
	return sum, nil
}

// membersVisibleTo lists the usernames offered in the member filter.
func membersVisibleTo(viewer *user.User, dir user.Directory) []string {
	scope, _ := visibility.Resolve(viewer, dir, visibility.Filter{})
	names := []string{}
	for _, u := range dir.Sorted() {
		if scope.Contains(u.Username) {
			names = append(names, u.Username)
		}
	}
	return names
}
