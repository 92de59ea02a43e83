package notice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/core/events"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/visibility"
)

type RepositoryAPI interface {
	All(ctx context.Context) ([]Notice, error)
	Update(ctx context.Context, fn func(notices *[]Notice) error) error
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

func (s *Service) Send(ctx context.Context, sender string, dto SendNoticeDTO) (Notice, error) {
	sent := NewNotice(sender, dto, s.clock())
	err := s.repo.Update(ctx, func(notices *[]Notice) error {
		*notices = append(*notices, sent)
		return nil
	})
	if err != nil {
		return Notice{}, fmt.Errorf("send notice: %w", err)
	}

	s.logger.InfoContext(ctx, "notice sent", "id", sent.ID, "target", sent.Target, "sender", sender)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeNoticeSent, sender, sent.ID, map[string]interface{}{
		"target": sent.Target,
	}))
	return sent, nil
}

func (s *Service) Delete(ctx context.Context, actor, id string) error {
	err := s.repo.Update(ctx, func(notices *[]Notice) error {
		for i, n := range *notices {
			if n.ID == id {
				*notices = append((*notices)[:i], (*notices)[i+1:]...)
				return nil
			}
		}
		return ErrNoticeNotFound
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "notice deleted", "id", id, "actor", actor)
	return nil
}

// List returns the notices viewer may read on date. An empty date matches
// every notice.
func (s *Service) List(ctx context.Context, viewer *user.User, date string) (NoticesView, error) {
	notices, err := s.repo.All(ctx)
	if err != nil {
		return NoticesView{}, fmt.Errorf("load notices: %w", err)
	}

	visible := make([]Notice, 0, len(notices))
	for _, n := range notices {
		if n.VisibleTo(viewer) && visibility.MatchDatePrefix(n.Date, date) {
			visible = append(visible, n)
		}
	}

	view := NoticesView{Date: date, Notices: visible}
	if viewer.IsAdmin() {
		dir, err := s.users.Directory(ctx)
		if err != nil {
			return NoticesView{}, fmt.Errorf("load users: %w", err)
		}
		view.Targets = append([]string{TargetAll}, sortedNames(dir)...)
	}
	return view, nil
}

func (s *Service) Count(ctx context.Context, viewer *user.User, date string) (int, error) {
	view, err := s.List(ctx, viewer, date)
	if err != nil {
		return 0, err
	}
	return len(view.Notices), nil
}

func sortedNames(dir user.Directory) []string {
	names := make([]string, 0, len(dir))
	for _, u := range dir.Sorted() {
		names = append(names, u.Username)
	}
	return names
}
