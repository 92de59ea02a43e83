package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/office-management/internal/core/common/validation"
	"github.com/frahmantamala/office-management/internal/core/events"
	"github.com/frahmantamala/office-management/internal/core/user"
)

type UserRepository interface {
	Directory(ctx context.Context) (user.Directory, error)
	Get(ctx context.Context, username string) (*user.User, bool, error)
	Update(ctx context.Context, fn func(dir user.Directory) error) error
}

type ServiceAPI interface {
	SetupRequired(ctx context.Context) (bool, error)
	Setup(ctx context.Context, dto SetupDTO) error
	Authenticate(ctx context.Context, dto LoginDTO) (Session, error)
	ResolveSession(ctx context.Context, token string) (Identity, error)
}

type Service struct {
	users      UserRepository
	tokens     TokenGenerator
	bcryptCost int
	publisher  events.Publisher
	logger     *slog.Logger
}

func NewService(users UserRepository, tokens TokenGenerator, bcryptCost int, publisher events.Publisher, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		publisher:  publisher,
		logger:     logger,
	}
}

// SetupRequired is true until the first account exists.
func (s *Service) SetupRequired(ctx context.Context) (bool, error) {
	dir, err := s.users.Directory(ctx)
	if err != nil {
		return false, fmt.Errorf("load users: %w", err)
	}
	return len(dir) == 0, nil
}

// Setup creates the bootstrap admin. It only succeeds against an empty directory.
func (s *Service) Setup(ctx context.Context, dto SetupDTO) error {
	if verr := validation.ValidateCredentials(dto.Username, dto.Password); verr != nil {
		return verr
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.Update(ctx, func(dir user.Directory) error {
		if len(dir) > 0 {
			return ErrSetupClosed
		}
		dir[dto.Username] = &user.User{
			Username:     dto.Username,
			PasswordHash: hash,
			Role:         user.RoleAdmin,
			Department:   user.AdminDepartment,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "bootstrap admin created", "username", dto.Username)
	_ = s.publisher.Publish(ctx, events.NewRecordEvent(events.EventTypeUserCreated, dto.Username, dto.Username, map[string]interface{}{
		"role": user.RoleAdmin,
	}))
	return nil
}

// Authenticate verifies the password and issues a session.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (Session, error) {
	if dto.Username == "" || dto.Password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, ok, err := s.users.Get(ctx, dto.Username)
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(u.Username)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}
	return Session{Username: u.Username, Token: token, ExpiresAt: expiresAt}, nil
}

// ResolveSession maps a session token to an identity. A missing, forged or
// expired token is anonymous; only store failures are errors.
func (s *Service) ResolveSession(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		if !errors.Is(err, ErrTokenExpired) {
			s.logger.DebugContext(ctx, "rejected session token", "error", err)
		}
		return Identity{}, nil
	}

	u, ok, err := s.users.Get(ctx, claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return Identity{Username: claims.Subject}, nil
	}
	return Identity{Username: u.Username, User: u}, nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
