package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

func TestPostgresSessionRepo_CreateThenTouch_IsImmediatelyVisible(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresSessionRepo(db)
	ctx := context.Background()

	userID := insertUser(t, db, "alice", false)
	now := time.Now()
	s := &model.Session{
		ID:        "session-abc",
		UserID:    userID,
		Username:  "alice",
		IsPartner: true,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Createが戻った直後に別コネクションから参照できること
	extended := now.Add(2 * time.Hour)
	got, err := repo.Touch(ctx, "session-abc", extended)
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.UserID != userID || got.Username != "alice" || !got.IsPartner || got.IsAdmin {
		t.Errorf("session = %+v", got)
	}
	if got.ExpiresAt.Sub(extended).Abs() > time.Second {
		t.Errorf("ExpiresAt = %v, want about %v", got.ExpiresAt, extended)
	}
}

func TestPostgresSessionRepo_Touch_ExpiredReturnsNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresSessionRepo(db)
	ctx := context.Background()

	userID := insertUser(t, db, "alice", false)
	s := &model.Session{
		ID:        "expired",
		UserID:    userID,
		Username:  "alice",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := repo.Touch(ctx, "expired", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for expired session, got %+v", got)
	}
}

func TestPostgresSessionRepo_DeleteByID(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresSessionRepo(db)
	ctx := context.Background()

	userID := insertUser(t, db, "alice", false)
	s := &model.Session{ID: "to-delete", UserID: userID, Username: "alice", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := repo.DeleteByID(ctx, "to-delete"); err != nil {
		t.Fatalf("DeleteByID() error: %v", err)
	}

	got, err := repo.Touch(ctx, "to-delete", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Touch() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}

	// 存在しないIDの削除はエラーにならない
	if err := repo.DeleteByID(ctx, "never-existed"); err != nil {
		t.Errorf("DeleteByID(missing) error: %v", err)
	}
}
