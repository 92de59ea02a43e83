package department

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/office-management/internal/core/user"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]string, error)
	Update(ctx context.Context, fn func(list *[]string) error) error
	Init(ctx context.Context, list []string) (bool, error)
	Replace(ctx context.Context, list []string) error
}

// UserDirectory is the read side of the users collection.
type UserDirectory interface {
	Directory(ctx context.Context) (user.Directory, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	return list, nil
}

// Overview lists every department with its current members.
func (s *Service) Overview(ctx context.Context) ([]DepartmentView, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := s.users.Directory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	out := make([]DepartmentView, len(list))
	for i, name := range list {
		members := dir.InDepartment(name)
		if members == nil {
			members = []string{}
		}
		out[i] = DepartmentView{Name: name, Members: members}
	}
	return out, nil
}

// Add appends name unless it is empty or already listed.
func (s *Service) Add(ctx context.Context, name string) error {
	name = Normalize(name)
	if name == "" {
		return ErrEmptyName
	}

	err := s.repo.Update(ctx, func(list *[]string) error {
		if indexOf(*list, name) >= 0 {
			return ErrAlreadyExists
		}
		*list = append(*list, name)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "department added", "department", name)
	return nil
}

// Delete removes name. Users and grants referring to it are left as they are.
func (s *Service) Delete(ctx context.Context, name string) error {
	name = Normalize(name)

	err := s.repo.Update(ctx, func(list *[]string) error {
		i := indexOf(*list, name)
		if i < 0 {
			return ErrNotFound
		}
		*list = append((*list)[:i], (*list)[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "department deleted", "department", name)
	return nil
}

// EnsureDefaults seeds DefaultDepartments when no list was ever stored.
func (s *Service) EnsureDefaults(ctx context.Context) (bool, error) {
	defaults := append([]string(nil), DefaultDepartments...)
	wrote, err := s.repo.Init(ctx, defaults)
	if err != nil {
		return false, fmt.Errorf("seed departments: %w", err)
	}
	if wrote {
		s.logger.InfoContext(ctx, "default departments seeded", "departments", defaults)
	}
	return wrote, nil
}

// Reset overwrites the list with DefaultDepartments.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Replace(ctx, append([]string(nil), DefaultDepartments...)); err != nil {
		return fmt.Errorf("reset departments: %w", err)
	}
	return nil
}

// IsSkip reports whether err is a rejected mutation rather than a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ErrEmptyName) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrNotFound)
}
