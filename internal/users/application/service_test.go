package application

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"wisewatt-cloud/internal/auth"
	devices "wisewatt-cloud/internal/devices/domain"
	users "wisewatt-cloud/internal/users/domain"
)

type stubUserRepo struct {
	byEmail map[string]users.User
	byGUID  map[string]users.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]users.User{}, byGUID: map[string]users.User{}}
}

func (s *stubUserRepo) GetByGUID(_ context.Context, guid string) (*users.User, error) {
	user, ok := s.byGUID[guid]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &user, nil
}

func (s *stubUserRepo) Save(_ context.Context, user users.User) error {
	s.byEmail[user.Email] = user
	s.byGUID[user.GUID] = user
	return nil
}

func (s *stubUserRepo) Update(_ context.Context, user users.User) error {
	return s.Save(context.Background(), user)
}

type stubDeviceRepo struct {
	saved []devices.Device
}

func (s *stubDeviceRepo) Get(_ context.Context, serial string) (*devices.Device, error) {
	return nil, devices.ErrDeviceNotFound
}

func (s *stubDeviceRepo) ListForUser(_ context.Context, userGUID string) ([]devices.Device, error) {
	var result []devices.Device
	for _, device := range s.saved {
		if device.UserGUID == userGUID {
			result = append(result, device)
		}
	}
	return result, nil
}

func (s *stubDeviceRepo) Save(_ context.Context, device *devices.Device) error {
	s.saved = append(s.saved, *device)
	return nil
}

func (s *stubDeviceRepo) Update(_ context.Context, device *devices.Device) error { return nil }

func (s *stubDeviceRepo) Delete(_ context.Context, serial string) error { return nil }

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

var testSecret = []byte("test-secret")

func TestRegister_SeedsDefaultFleet(t *testing.T) {
	userRepo := newStubUserRepo()
	deviceRepo := &stubDeviceRepo{}
	service, err := NewService(userRepo, deviceRepo, testSecret, quietLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, err := service.Register(context.Background(), "Jens", "Hansen", "Jens@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := auth.ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Email != "jens@example.com" {
		t.Fatalf("token email %q, want normalized jens@example.com", claims.Email)
	}
	if len(deviceRepo.saved) != 5 {
		t.Fatalf("expected 5 seeded devices, got %d", len(deviceRepo.saved))
	}
	for _, device := range deviceRepo.saved {
		if device.UserGUID != claims.UserGUID {
			t.Fatalf("device %s belongs to %q, want %q", device.Serial, device.UserGUID, claims.UserGUID)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := newStubUserRepo()
	service, err := NewService(userRepo, &stubDeviceRepo{}, testSecret, quietLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := service.Register(context.Background(), "Jens", "Hansen", "jens@example.com", "hunter2"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := service.Register(context.Background(), "Anna", "Hansen", "JENS@example.com", "other"); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	userRepo := newStubUserRepo()
	service, err := NewService(userRepo, &stubDeviceRepo{}, testSecret, quietLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := service.Register(context.Background(), "Jens", "Hansen", "jens@example.com", "hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := service.Login(context.Background(), "jens@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := auth.ParseJWT(token, testSecret); err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if _, err := service.Login(context.Background(), "jens@example.com", "wrong"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(context.Background(), "nobody@example.com", "hunter2"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
