// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/Adiaj449/wiresandnails/internal/middleware"
	"github.com/Adiaj449/wiresandnails/internal/model"
)

const (
	dashboardPath     = "/partner/dashboard"
	landingPath       = "/"
	loginFailedPath   = "/?login=failed"
	loginErrorPath    = "/?login=error"
	maxLoginBodyBytes = 1 << 14
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// CookieSigner はセッションCookieの値に署名するインターフェース。
type CookieSigner interface {
	Sign(value string) (string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

func (c AuthHandlerConfig) cookieOptions() middleware.CookieOptions {
	return middleware.CookieOptions{
		MaxAge: c.SessionMaxAge,
		Secure: c.CookieSecure,
		Domain: c.CookieDomain,
	}
}

// AuthHandler はログイン・ログアウト関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	signer  CookieSigner
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, signer CookieSigner, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		signer:  signer,
		config:  config,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirectUrl"`
}

type meResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsPartner bool   `json:"isPartner"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Login はユーザー名とパスワードでログインする。
// POST /auth/login
// JSONリクエストにはJSONで、フォーム送信には303リダイレクトで応答する。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	asJSON := isJSONRequest(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)

	var req loginRequest
	if asJSON {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, newMalformedBodyError())
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, loginFailedPath, http.StatusSeeOther)
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if asJSON {
			handleServiceError(w, r, err)
			return
		}
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			slog.Error("login failed", slog.String("error", err.Error()))
			http.Redirect(w, r, loginErrorPath, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, loginFailedPath, http.StatusSeeOther)
		return
	}

	// セッションはLogin内で永続化済み。Cookieを設定してから応答する
	signed, err := h.signer.Sign(session.ID)
	if err != nil {
		slog.Error("failed to sign session cookie", slog.String("error", err.Error()))
		if asJSON {
			middleware.WriteInternalServerError(w)
			return
		}
		http.Redirect(w, r, loginErrorPath, http.StatusSeeOther)
		return
	}
	http.SetCookie(w, middleware.SessionCookie(signed, h.config.cookieOptions()))

	if !asJSON {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success:     true,
		Message:     "Login successful",
		RedirectURL: dashboardPath,
	})
}

// Logout はセッションを破棄してトップページへリダイレクトする。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := middleware.SessionIDFromContext(r.Context()); sessionID != "" {
		if err := h.service.Logout(r.Context(), sessionID); err != nil {
			slog.Error("failed to logout", slog.String("error", err.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	opts := h.config.cookieOptions()
	opts.MaxAge = -1
	http.SetCookie(w, middleware.SessionCookie("", opts))

	http.Redirect(w, r, landingPath, http.StatusSeeOther)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, meResponse{
		Success: true,
		User: userResponse{
			ID:        id.UserID,
			Username:  id.Username,
			IsPartner: id.IsPartner,
			IsAdmin:   id.IsAdmin,
		},
	})
}

// isJSONRequest はリクエストボディがJSONかどうかを判定する。
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
