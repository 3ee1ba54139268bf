package repository

import (
	"context"
	"errors"
	"testing"

	"courseplatform/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserRepo(t *testing.T) *UserRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewUserRepository(db)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	first := &domain.User{Email: "dup@example.com", Username: "first", Password: "hash"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Гонка регистрации: unique-констрейнт должен превратиться в доменную ошибку
	second := &domain.User{Email: "dup@example.com", Username: "second", Password: "hash"}
	err := repo.Create(ctx, second)
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	first := &domain.User{Email: "a@example.com", Username: "taken", Password: "hash"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := &domain.User{Email: "b@example.com", Username: "taken", Password: "hash"}
	err := repo.Create(ctx, second)
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestCreateAssignsID(t *testing.T) {
	repo := newUserRepo(t)

	user := &domain.User{Email: "id@example.com", Username: "id-user", Password: "hash"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("ID not assigned on create")
	}

	got, err := repo.GetByEmail(context.Background(), "id@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("round-trip ID mismatch: %s vs %s", got.ID, user.ID)
	}
}
