package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/events"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/visibility"
)

type RepositoryAPI interface {
	All(ctx context.Context) ([]Task, error)
	Update(ctx context.Context, fn func(tasks *[]Task) error) error
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

func (s *Service) WithClock(clock internal.Clock) *Service {
	s.clock = clock
	return s
}

func (s *Service) Today() string {
	return internal.FormatDate(s.clock())
}

// Add creates a pending task. Members always assign to themselves; admins
// and leaders may name another assignee they are allowed to assign to.
func (s *Service) Add(ctx context.Context, actor *user.User, dto AddTaskDTO) (Task, error) {
	dir, err := s.users.Directory(ctx)
	if err != nil {
		return Task{}, fmt.Errorf("load users: %w", err)
	}

	assigneeName := dto.Username
	if assigneeName == "" || actor.IsMember() {
		assigneeName = actor.Username
	}
	assignee, ok := dir.Get(assigneeName)
	if !ok {
		s.logger.WarnContext(ctx, "task add ignored, unknown assignee", "assignee", assigneeName, "actor", actor.Username)
		return Task{}, ErrAssigneeNotFound
	}
	if !auth.CanAssignTo(actor, assignee) {
		s.logger.WarnContext(ctx, "task add refused", "assignee", assigneeName, "actor", actor.Username)
		return Task{}, ErrForbidden
	}

	created := NewTask(assignee.Username, actor.Username, dto, s.clock())
	err = s.repo.Update(ctx, func(tasks *[]Task) error {
		*tasks = append(*tasks, created)
		return nil
	})
	if err != nil {
		return Task{}, fmt.Errorf("add task: %w", err)
	}

	s.logger.InfoContext(ctx, "task added", "id", created.ID, "assignee", created.Username, "actor", actor.Username)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeTaskCreated, actor.Username, created.ID, map[string]interface{}{
		"assignee": created.Username,
		"title":    created.Title,
	}))
	return created, nil
}

// UpdateStatus overwrites the task's status with whatever text is given.
func (s *Service) UpdateStatus(ctx context.Context, actor *user.User, dto UpdateTaskDTO) error {
	err := s.repo.Update(ctx, func(tasks *[]Task) error {
		i := indexOf(*tasks, dto.ID)
		if i < 0 {
			return ErrTaskNotFound
		}
		t := &(*tasks)[i]
		if !t.CanBeUpdatedBy(actor) {
			return ErrForbidden
		}
		t.Status = dto.Status
		return nil
	})
	if err != nil {
		s.logRefusal(ctx, "update", actor, dto.ID, err)
		return err
	}

	s.logger.InfoContext(ctx, "task updated", "id", dto.ID, "status", dto.Status, "actor", actor.Username)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeTaskUpdated, actor.Username, dto.ID, map[string]interface{}{
		"status": dto.Status,
	}))
	return nil
}

func (s *Service) Delete(ctx context.Context, actor *user.User, id string) error {
	err := s.repo.Update(ctx, func(tasks *[]Task) error {
		i := indexOf(*tasks, id)
		if i < 0 {
			return ErrTaskNotFound
		}
		if !(*tasks)[i].CanBeDeletedBy(actor) {
			return ErrForbidden
		}
		*tasks = append((*tasks)[:i], (*tasks)[i+1:]...)
		return nil
	})
	if err != nil {
		s.logRefusal(ctx, "delete", actor, id, err)
		return err
	}

	s.logger.InfoContext(ctx, "task deleted", "id", id, "actor", actor.Username)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeTaskDeleted, actor.Username, id, nil))
	return nil
}

func (s *Service) logRefusal(ctx context.Context, op string, actor *user.User, id string, err error) {
	if IsIgnored(err) {
		s.logger.WarnContext(ctx, "task "+op+" refused", "id", id, "actor", actor.Username, "reason", err)
	}
}

// List returns the tasks viewer may see, date-scoped by prefix and narrowed by status.
func (s *Service) List(ctx context.Context, viewer *user.User, f visibility.Filter) (TasksView, error) {
	tasks, err := s.repo.All(ctx)
	if err != nil {
		return TasksView{}, fmt.Errorf("load tasks: %w", err)
	}
	dir, err := s.users.Directory(ctx)
	if err != nil {
		return TasksView{}, fmt.Errorf("load users: %w", err)
	}

	scope := visibility.ResolveOrEmpty(ctx, s.logger, viewer, dir, f)
	visible := visibility.Apply(tasks, scope, owner, func(t Task) bool {
		if f.Status != "" && t.Status != f.Status {
			return false
		}
		return visibility.MatchDatePrefix(t.Date, f.Date)
	})

	return TasksView{
		Filter:     f,
		Tasks:      visible,
		Members:    membersVisibleTo(viewer, dir),
		Assignable: assignableBy(viewer, dir),
	}, nil
}

func (s *Service) Summarize(ctx context.Context, viewer *user.User, f visibility.Filter) (Summary, error) {
	view, err := s.List(ctx, viewer, f)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Total: len(view.Tasks)}
	for _, t := range view.Tasks {
		if t.IsPending() {
			sum.Pending++
		}
	}
	return sum, nil
}

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

func assignableBy(viewer *user.User, dir user.Directory) []string {
	names := []string{}
	for _, u := range dir.Sorted() {
		if auth.CanAssignTo(viewer, u) {
			names = append(names, u.Username)
		}
	}
	return names
}
