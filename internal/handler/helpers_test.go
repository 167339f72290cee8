package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Adiaj449/wiresandnails/internal/dealer"
	"github.com/Adiaj449/wiresandnails/internal/middleware"
	"github.com/Adiaj449/wiresandnails/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	loginFn  func(ctx context.Context, username, password string) (*model.Session, error)
	logoutFn func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return nil, model.NewInvalidCredentialsError()
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

// mockDealerService はDealerServiceInterfaceのモック実装。
type mockDealerService struct {
	listFn    func(ctx context.Context, who model.Identity) ([]*model.Dealer, error)
	listAllFn func(ctx context.Context, who model.Identity) ([]*model.Dealer, error)
	getFn     func(ctx context.Context, who model.Identity, id int64) (*model.Dealer, error)
	saveFn    func(ctx context.Context, who model.Identity, in dealer.SaveInput) (*model.Dealer, bool, error)
	deleteFn  func(ctx context.Context, who model.Identity, id int64) error
}

func (m *mockDealerService) List(ctx context.Context, who model.Identity) ([]*model.Dealer, error) {
	if m.listFn != nil {
		return m.listFn(ctx, who)
	}
	return []*model.Dealer{}, nil
}

func (m *mockDealerService) ListAll(ctx context.Context, who model.Identity) ([]*model.Dealer, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, who)
	}
	return []*model.Dealer{}, nil
}

func (m *mockDealerService) Get(ctx context.Context, who model.Identity, id int64) (*model.Dealer, error) {
	if m.getFn != nil {
		return m.getFn(ctx, who, id)
	}
	return nil, model.NewDealerNotFoundError()
}

func (m *mockDealerService) Save(ctx context.Context, who model.Identity, in dealer.SaveInput) (*model.Dealer, bool, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, who, in)
	}
	return nil, false, nil
}

func (m *mockDealerService) Delete(ctx context.Context, who model.Identity, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, who, id)
	}
	return nil
}

// fakeSigner は値の前に "signed." を付けるだけの署名器。
type fakeSigner struct{}

func (fakeSigner) Sign(value string) (string, error) { return "signed." + value, nil }

// failingSigner は常に署名に失敗する。
type failingSigner struct{ fakeSigner }

func (failingSigner) Sign(string) (string, error) { return "", errors.New("encode failed") }

func (fakeSigner) Verify(signed string) (string, bool) {
	if len(signed) > len("signed.") && signed[:len("signed.")] == "signed." {
		return signed[len("signed."):], true
	}
	return "", false
}

// stubSessionStore はメモリ上のセッションストア。
type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func (s *stubSessionStore) Touch(_ context.Context, id string, expiresAt time.Time) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	sess.ExpiresAt = expiresAt
	return sess, nil
}

func (s *stubSessionStore) put(sess *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]*model.Session)
	}
	s.sessions[sess.ID] = sess
}

func (s *stubSessionStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// --- テストヘルパー ---

var (
	partnerAlice = model.Identity{UserID: 1, Username: "alice", IsPartner: true}
	adminUser    = model.Identity{UserID: 3, Username: "admin", IsPartner: true, IsAdmin: true}
)

// withIdentity はテスト用にリクエストコンテキストにIdentityを注入するヘルパー。
func withIdentity(r *http.Request, id model.Identity) *http.Request {
	return r.WithContext(middleware.ContextWithIdentity(r.Context(), id))
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからエラーレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var result middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v (body: %s)", err, w.Body.String())
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
