package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"wisewatt-cloud/internal/auth"
	devices "wisewatt-cloud/internal/devices/domain"
	users "wisewatt-cloud/internal/users/domain"
)

const defaultTokenTTL = 24 * time.Hour

// Service implements registration and login.
type Service struct {
	repo     users.Repository
	devices  devices.Repository
	secret   []byte
	tokenTTL time.Duration
	logger   *log.Logger
}

// Option customises the service.
type Option func(*Service)

// WithTokenTTL overrides the issued token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// NewService constructs a user service.
func NewService(repo users.Repository, deviceRepo devices.Repository, secret []byte, logger *log.Logger, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("users service: nil repository")
	}
	if deviceRepo == nil {
		return nil, errors.New("users service: nil device repository")
	}
	if len(secret) == 0 {
		return nil, errors.New("users service: empty jwt secret")
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		repo:     repo,
		devices:  deviceRepo,
		secret:   secret,
		tokenTTL: defaultTokenTTL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates a new account and seeds it with the default device fleet.
// Returns a signed token for the fresh account.
func (s *Service) Register(ctx context.Context, firstname, lastname, email, password string) (string, error) {
	email = users.NormalizeEmail(email)
	if email == "" {
		return "", users.ErrEmptyEmail
	}
	if password == "" {
		return "", users.ErrMissingCredentials
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, users.ErrUserNotFound) {
		return "", fmt.Errorf("users service: lookup email: %w", err)
	}
	if existing != nil {
		return "", users.ErrEmailTaken
	}

	salt := users.NewSalt()
	user := users.User{
		GUID:         users.NewGUID(),
		Firstname:    firstname,
		Lastname:     lastname,
		Email:        email,
		PasswordHash: users.HashPassword(password, salt),
		Salt:         salt,
	}
	if err := user.Validate(); err != nil {
		return "", err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return "", fmt.Errorf("users service: save user: %w", err)
	}

	fleet, err := devices.DefaultDevices(user.GUID)
	if err != nil {
		return "", fmt.Errorf("users service: default fleet: %w", err)
	}
	for i := range fleet {
		if err := s.devices.Save(ctx, &fleet[i]); err != nil {
			return "", fmt.Errorf("users service: seed device %s: %w", fleet[i].Serial, err)
		}
	}
	s.logger.Printf("users: registered %s with default fleet", user.GUID)

	return auth.NewToken(user.GUID, user.Email, s.secret, s.tokenTTL)
}

// Login checks the credentials and returns a signed token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return "", users.ErrInvalidCredentials
		}
		return "", fmt.Errorf("users service: lookup email: %w", err)
	}
	if user == nil || !user.CheckPassword(password) {
		return "", users.ErrInvalidCredentials
	}
	return auth.NewToken(user.GUID, user.Email, s.secret, s.tokenTTL)
}

// Get returns a user by guid.
func (s *Service) Get(ctx context.Context, guid string) (*users.User, error) {
	user, err := s.repo.GetByGUID(ctx, guid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, users.ErrUserNotFound
	}
	return user, nil
}
