// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	identityContextKey  = contextKey("identity")
	sessionIDContextKey = contextKey("session_id")
)

// SessionToucher は有効なセッションの取得と有効期限の延長を行うインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionToucher interface {
	Touch(ctx context.Context, id string, expiresAt time.Time) (*model.Session, error)
}

// CookieVerifier は署名済みCookie値を検証するインターフェース。
type CookieVerifier interface {
	Verify(signed string) (string, bool)
}

// CookieOptions はセッションCookieの属性。
type CookieOptions struct {
	MaxAge int // 秒
	Secure bool
	Domain string
}

// SessionCookie はセッションCookieを生成する。maxAgeが負の場合は削除用のCookieになる。
func SessionCookie(value string, opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効なセッションであれば有効期限を延長してIdentityをリクエストコンテキストに注入する。
// このミドルウェア自体はリクエストを拒否しない。拒否はRequireAuth等のガードが行う。
func NewSessionMiddleware(store SessionToucher, verifier CookieVerifier, opts CookieOptions) func(next http.Handler) http.Handler {
	ttl := time.Duration(opts.MaxAge) * time.Second

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sessionID, ok := verifier.Verify(cookie.Value)
			if !ok {
				slog.Warn("session cookie signature mismatch", slog.String("path", r.URL.Path))
				clearSessionCookie(w, opts)
				next.ServeHTTP(w, r)
				return
			}

			session, err := store.Touch(r.Context(), sessionID, time.Now().Add(ttl))
			if err != nil {
				slog.Error("failed to load session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				clearSessionCookie(w, opts)
				next.ServeHTTP(w, r)
				return
			}

			// 有効期限をスライドさせたのでCookieも再発行する
			http.SetCookie(w, SessionCookie(cookie.Value, opts))

			ctx := ContextWithIdentity(r.Context(), session.Identity())
			ctx = context.WithValue(ctx, sessionIDContextKey, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	opts.MaxAge = -1
	http.SetCookie(w, SessionCookie("", opts))
}

// IdentityFromContext はリクエストコンテキストから呼び出し元のIdentityを取得する。
// 未ログインの場合はゼロ値を返す。
func IdentityFromContext(ctx context.Context) model.Identity {
	id, _ := ctx.Value(identityContextKey).(model.Identity)
	return id
}

// ContextWithIdentity はコンテキストにIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// SessionIDFromContext はセッションミドルウェアが検証したセッションIDを返す。
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDContextKey).(string)
	return id
}
