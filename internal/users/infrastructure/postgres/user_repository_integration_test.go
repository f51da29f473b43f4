package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	users "wisewatt-cloud/internal/users/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "..", "..")
	data, err := os.ReadFile(filepath.Join(root, "migrations", "001_init.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
}

func TestUserRepository_RoundTrip(t *testing.T) {
	db := openDB(t)
	defer db.Close()
	applyMigrations(t, db)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `DELETE FROM users WHERE email = $1`, "it@example.com"); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	repo, err := NewUserRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	salt := users.NewSalt()
	user := users.User{
		GUID:         users.NewGUID(),
		Firstname:    "Jens",
		Lastname:     "Hansen",
		Email:        "it@example.com",
		PasswordHash: users.HashPassword("hunter2", salt),
		Salt:         salt,
	}
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save: %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "it@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.GUID != user.GUID {
		t.Fatalf("guid mismatch: %q vs %q", byEmail.GUID, user.GUID)
	}
	if !byEmail.CheckPassword("hunter2") {
		t.Fatal("stored credentials do not verify")
	}

	byEmail.Lastname = "Jensen"
	if err := repo.Update(ctx, *byEmail); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, err := repo.GetByGUID(ctx, user.GUID)
	if err != nil {
		t.Fatalf("get by guid: %v", err)
	}
	if stored.Lastname != "Jensen" {
		t.Fatalf("update not persisted: %+v", stored)
	}

	if _, err := repo.GetByEmail(ctx, "missing@example.com"); !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
