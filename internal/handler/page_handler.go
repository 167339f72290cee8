package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Adiaj449/wiresandnails/internal/middleware"
	"github.com/Adiaj449/wiresandnails/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PageHandler はHTMLページ（トップページとダッシュボード）のハンドラー。
type PageHandler struct {
	dealers DealerServiceInterface
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(dealers DealerServiceInterface) *PageHandler {
	return &PageHandler{dealers: dealers}
}

type landingPage struct {
	Title       string
	LoginFailed bool
	LoginError  bool
}

type dashboardPage struct {
	Title     string
	Username  string
	IsAdmin   bool
	CSRFToken string
	Dealers   []*model.Dealer
}

// Landing はログインフォームを表示する。ログイン済みならダッシュボードへリダイレクトする。
// GET /
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if middleware.IdentityFromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	q := r.URL.Query().Get("login")
	renderPage(w, "landing", landingPage{
		Title:       "Login",
		LoginFailed: q == "failed",
		LoginError:  q == "error",
	})
}

// Dashboard はログインユーザーのダッシュボードを表示する。
// GET /partner/dashboard, GET /dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	who := middleware.IdentityFromContext(r.Context())

	dealers, err := h.dealers.List(r.Context(), who)
	if err != nil {
		slog.Error("failed to load dashboard dealers",
			slog.String("error", err.Error()),
			slog.Int64("user_id", who.UserID),
		)
		http.Error(w, "Failed to retrieve dealer network data.", http.StatusInternalServerError)
		return
	}

	renderPage(w, "dashboard", dashboardPage{
		Title:     "Dashboard",
		Username:  who.Username,
		IsAdmin:   who.IsAdmin,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Dealers:   dealers,
	})
}

// renderPage はテンプレートをバッファに描画してから書き込む。
// 描画に失敗した場合は部分的なHTMLを書き込まない。
func renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render page", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
