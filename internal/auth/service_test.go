package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.findByUsernameFn(ctx, username)
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	touchFn      func(ctx context.Context, id string, expiresAt time.Time) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return m.createFn(ctx, session)
}

func (m *mockSessionRepo) Touch(ctx context.Context, id string, expiresAt time.Time) (*model.Session, error) {
	return m.touchFn(ctx, id, expiresAt)
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFn(ctx, id)
}

type recordingRecorder struct {
	results []string
}

func (r *recordingRecorder) RecordLogin(result string) {
	r.results = append(r.results, result)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return h
}

func apiErrorCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T (%v)", err, err)
	}
	return apiErr.Code
}

// --- Login ---

func TestLogin_Success_CopiesRoleFlags(t *testing.T) {
	hash := mustHash(t, "s3cret")
	var saved *model.Session

	svc := NewService(
		&mockUserRepo{findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			if username != "admin" {
				t.Errorf("username = %q, want admin", username)
			}
			return &model.User{ID: 7, Username: "admin", PasswordHash: hash, IsPartner: true, IsAdmin: true}, nil
		}},
		&mockSessionRepo{createFn: func(_ context.Context, s *model.Session) error {
			saved = s
			return nil
		}},
		nil,
		ServiceConfig{SessionTTL: time.Hour},
	)

	before := time.Now()
	session, err := svc.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if saved == nil || saved != session {
		t.Fatal("session was not persisted before Login returned")
	}
	if session.UserID != 7 || session.Username != "admin" || !session.IsPartner || !session.IsAdmin {
		t.Errorf("session = %+v, role flags not copied", session)
	}
	if len(session.ID) != 64 {
		t.Errorf("len(session.ID) = %d, want 64", len(session.ID))
	}
	if session.ExpiresAt.Before(before.Add(59*time.Minute)) || session.ExpiresAt.After(time.Now().Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want about one hour from now", session.ExpiresAt)
	}
}

func TestLogin_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	hash := mustHash(t, "right")
	recorder := &recordingRecorder{}
	sessions := &mockSessionRepo{createFn: func(context.Context, *model.Session) error {
		t.Fatal("session must not be created on failed login")
		return nil
	}}
	svc := NewService(
		&mockUserRepo{findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			if username == "alice" {
				return &model.User{ID: 1, Username: "alice", PasswordHash: hash, IsPartner: true}, nil
			}
			return nil, nil
		}},
		sessions,
		recorder,
		ServiceConfig{SessionTTL: time.Minute},
	)

	_, errUnknown := svc.Login(context.Background(), "nobody", "right")
	_, errWrong := svc.Login(context.Background(), "alice", "wrong")

	if errUnknown == nil || errWrong == nil {
		t.Fatal("expected both logins to fail")
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Errorf("messages differ: %q vs %q", errUnknown.Error(), errWrong.Error())
	}
	if code := apiErrorCode(t, errUnknown); code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", code, model.ErrCodeInvalidCredentials)
	}
	if code := apiErrorCode(t, errWrong); code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", code, model.ErrCodeInvalidCredentials)
	}
	if len(recorder.results) != 2 || recorder.results[0] != LoginResultInvalid || recorder.results[1] != LoginResultInvalid {
		t.Errorf("recorded = %v", recorder.results)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"empty password", "alice", ""},
		{"both empty", "", ""},
	}

	svc := NewService(
		&mockUserRepo{findByUsernameFn: func(context.Context, string) (*model.User, error) {
			t.Fatal("repository must not be queried")
			return nil, nil
		}},
		&mockSessionRepo{},
		nil,
		ServiceConfig{SessionTTL: time.Minute},
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			if code := apiErrorCode(t, err); code != model.ErrCodeBadRequest {
				t.Errorf("code = %q, want %q", code, model.ErrCodeBadRequest)
			}
		})
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	dbErr := errors.New("connection refused")
	svc := NewService(
		&mockUserRepo{findByUsernameFn: func(context.Context, string) (*model.User, error) {
			return nil, dbErr
		}},
		&mockSessionRepo{},
		nil,
		ServiceConfig{SessionTTL: time.Minute},
	)

	_, err := svc.Login(context.Background(), "alice", "pw")
	if !errors.Is(err, dbErr) {
		t.Errorf("error = %v, want wrapped %v", err, dbErr)
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Error("infrastructure error must not be reported as an APIError")
	}
}

func TestLogin_SessionSaveFailure(t *testing.T) {
	hash := mustHash(t, "pw")
	svc := NewService(
		&mockUserRepo{findByUsernameFn: func(context.Context, string) (*model.User, error) {
			return &model.User{ID: 1, Username: "alice", PasswordHash: hash}, nil
		}},
		&mockSessionRepo{createFn: func(context.Context, *model.Session) error {
			return errors.New("disk full")
		}},
		nil,
		ServiceConfig{SessionTTL: time.Minute},
	)

	if _, err := svc.Login(context.Background(), "alice", "pw"); err == nil {
		t.Fatal("expected error when session cannot be saved")
	}
}

// --- Logout ---

func TestLogout(t *testing.T) {
	var deleted string
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{
		deleteByIDFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}, nil, ServiceConfig{SessionTTL: time.Minute})

	if err := svc.Logout(context.Background(), "abc"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if deleted != "abc" {
		t.Errorf("deleted = %q, want abc", deleted)
	}

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Error("expected error for empty session ID")
	}
}

func TestGenerateSessionID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := generateSessionID()
		if err != nil {
			t.Fatalf("generateSessionID() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate session ID %q", id)
		}
		seen[id] = true
	}
}
