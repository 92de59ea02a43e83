package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/attendance"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/task"
	"github.com/frahmantamala/office-management/internal/visibility"
)

type UserDirectory interface {
	Directory(ctx context.Context) (user.Directory, error)
}

type DepartmentLister interface {
	List(ctx context.Context) ([]string, error)
}

type AttendanceReader interface {
	List(ctx context.Context, viewer *user.User, f visibility.Filter) (attendance.AttendanceView, error)
	Summarize(ctx context.Context, viewer *user.User, f visibility.Filter) (attendance.Summary, error)
}

type TaskSummarizer interface {
	Summarize(ctx context.Context, viewer *user.User, f visibility.Filter) (task.Summary, error)
}

type NoticeCounter interface {
	Count(ctx context.Context, viewer *user.User, date string) (int, error)
}

type CustomerCounter interface {
	Count(ctx context.Context) (int, error)
}

// Sources bundles the services a dashboard reads from.
type Sources struct {
	Users       UserDirectory
	Departments DepartmentLister
	Attendance  AttendanceReader
	Tasks       TaskSummarizer
	Notices     NoticeCounter
	Customers   CustomerCounter
}

type Service struct {
	src    Sources
	clock  internal.Clock
	logger *slog.Logger
}

func NewService(src Sources, logger *slog.Logger) *Service {
	return &Service{
		src:    src,
		clock:  internal.NewClock(nil),
		logger: logger,
	}
}

func (s *Service) WithClock(clock internal.Clock) *Service {
	s.clock = clock
	return s
}

func (s *Service) Today() string {
	return internal.FormatDate(s.clock())
}

// Admin counts everything in the office for date.
func (s *Service) Admin(ctx context.Context, viewer *user.User, date string) (Dashboard, error) {
	d, err := s.common(ctx, viewer, date)
	if err != nil {
		return Dashboard{}, err
	}

	dir, err := s.src.Users.Directory(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load users: %w", err)
	}
	d.Users = len(dir)

	depts, err := s.src.Departments.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load departments: %w", err)
	}
	d.Departments = len(depts)

	customers, err := s.src.Customers.Count(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.Customers = &customers
	return d, nil
}

// Leader counts over the users the leader may view.
func (s *Service) Leader(ctx context.Context, viewer *user.User, date string) (Dashboard, error) {
	d, err := s.common(ctx, viewer, date)
	if err != nil {
		return Dashboard{}, err
	}

	dir, err := s.src.Users.Directory(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load users: %w", err)
	}
	scope, _ := visibility.Resolve(viewer, dir, visibility.Filter{})
	depts := map[string]struct{}{}
	for _, u := range dir {
		if scope.Contains(u.Username) {
			d.Users++
			depts[u.Department] = struct{}{}
		}
	}
	d.Departments = len(depts)

	all, err := s.src.Departments.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load departments: %w", err)
	}
	d.Viewable = auth.PermittedDepartments(viewer, all, user.ActionView)
	return d, nil
}

// Member shows the caller's own day.
func (s *Service) Member(ctx context.Context, viewer *user.User, date string) (Dashboard, error) {
	d, err := s.common(ctx, viewer, date)
	if err != nil {
		return Dashboard{}, err
	}

	view, err := s.src.Attendance.List(ctx, viewer, visibility.Filter{Date: date})
	if err != nil {
		return Dashboard{}, err
	}
	d.Today = view.Today
	return d, nil
}

func (s *Service) common(ctx context.Context, viewer *user.User, date string) (Dashboard, error) {
	f := visibility.Filter{Date: date}
	d := Dashboard{Role: viewer.Role, Username: viewer.Username, Date: date}

	var err error
	if d.Attendance, err = s.src.Attendance.Summarize(ctx, viewer, f); err != nil {
		return Dashboard{}, err
	}
	if d.Tasks, err = s.src.Tasks.Summarize(ctx, viewer, f); err != nil {
		return Dashboard{}, err
	}
	if d.Notices, err = s.src.Notices.Count(ctx, viewer, date); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
