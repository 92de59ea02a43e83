package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/common/validation"
	"github.com/frahmantamala/office-management/internal/core/events"
	coreuser "github.com/frahmantamala/office-management/internal/core/user"
)

type Repository interface {
	Directory(ctx context.Context) (coreuser.Directory, error)
	Get(ctx context.Context, username string) (*coreuser.User, bool, error)
	Update(ctx context.Context, fn func(dir coreuser.Directory) error) error
}

// DepartmentLister provides the current department list.
type DepartmentLister interface {
	List(ctx context.Context) ([]string, error)
}

type Service struct {
	repo        Repository
	departments DepartmentLister
	bcryptCost  int
	publisher   events.Publisher
	logger      *slog.Logger
}

func NewService(repo Repository, departments DepartmentLister, bcryptCost int, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:        repo,
		departments: departments,
		bcryptCost:  bcryptCost,
		publisher:   publisher,
		logger:      logger,
	}
}

// List renders every user without password hashes.
func (s *Service) List(ctx context.Context) (UsersView, error) {
	dir, err := s.repo.Directory(ctx)
	if err != nil {
		return UsersView{}, fmt.Errorf("load users: %w", err)
	}
	depts, err := s.departments.List(ctx)
	if err != nil {
		return UsersView{}, fmt.Errorf("load departments: %w", err)
	}
	return UsersView{
		Users:       dir.Profiles(),
		Departments: depts,
		Actions:     []string{coreuser.ActionView, coreuser.ActionAssign, coreuser.ActionAll},
	}, nil
}

// Add creates an account. An existing username is left untouched.
func (s *Service) Add(ctx context.Context, actor string, dto AddUserDTO) error {
	if verr := validation.ValidateCredentials(dto.Username, dto.Password); verr != nil {
		return verr
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	role := coreuser.NormalizeRole(dto.Role)

	err = s.repo.Update(ctx, func(dir coreuser.Directory) error {
		if _, exists := dir.Get(dto.Username); exists {
			return ErrExists
		}
		dir[dto.Username] = &coreuser.User{
			Username:     dto.Username,
			PasswordHash: hash,
			Role:         role,
			Department:   dto.Department,
			Contact:      dto.Contact,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user added", "username", dto.Username, "role", role, "department", dto.Department, "actor", actor)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeUserCreated, actor, dto.Username, map[string]interface{}{
		"role":       role,
		"department": dto.Department,
	}))
	return nil
}

// Delete removes a non-admin account.
func (s *Service) Delete(ctx context.Context, actor, username string) error {
	err := s.repo.Update(ctx, func(dir coreuser.Directory) error {
		u, ok := dir.Get(username)
		if !ok {
			return ErrNotFound
		}
		if u.IsAdmin() {
			return ErrCannotDeleteAdmin
		}
		delete(dir, username)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted", "username", username, "actor", actor)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeUserDeleted, actor, username, nil))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, actor string, dto ResetPasswordDTO) error {
	if verr := validation.ValidateCredentials(dto.Username, dto.Password); verr != nil {
		return verr
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.repo.Update(ctx, func(dir coreuser.Directory) error {
		u, ok := dir.Get(dto.Username)
		if !ok {
			return ErrNotFound
		}
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset", "username", dto.Username, "actor", actor)
	return nil
}

// UpdatePermissions replaces the user's grant for every known department.
// Departments missing from dto.Grants end up with no entry.
func (s *Service) UpdatePermissions(ctx context.Context, actor string, dto UpdatePermissionsDTO) error {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return fmt.Errorf("load departments: %w", err)
	}

	err = s.repo.Update(ctx, func(dir coreuser.Directory) error {
		u, ok := dir.Get(dto.Username)
		if !ok {
			return ErrNotFound
		}
		for _, d := range depts {
			u.SetActions(d, dto.Grants[d])
		}
		if len(u.Permissions) == 0 {
			u.Permissions = nil
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "permissions updated", "username", dto.Username, "actor", actor)
	return nil
}

func (s *Service) Profile(ctx context.Context, username string) (coreuser.Profile, error) {
	u, ok, err := s.repo.Get(ctx, username)
	if err != nil {
		return coreuser.Profile{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return coreuser.Profile{}, ErrNotFound
	}
	return u.ToProfile(), nil
}

// UpdateProfile always sets the contact; the image only when one is given.
func (s *Service) UpdateProfile(ctx context.Context, username string, dto ProfileDTO) error {
	return s.repo.Update(ctx, func(dir coreuser.Directory) error {
		u, ok := dir.Get(username)
		if !ok {
			return ErrNotFound
		}
		u.Contact = dto.Contact
		if dto.ProfileImage != "" {
			u.ProfileImage = dto.ProfileImage
		}
		return nil
	})
}
