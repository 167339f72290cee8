package middleware

import (
	"net/http"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

// RequireAuth は未ログインのリクエストを401で拒否する。API用。
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFromContext(r.Context()).Authenticated() {
			WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthRedirect は未ログインのリクエストをtargetへ303でリダイレクトする。HTMLページ用。
func RequireAuthRedirect(target string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IdentityFromContext(r.Context()).Authenticated() {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin は未ログインなら401、管理者でなければ403で拒否する。
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if !id.Authenticated() {
			WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
			return
		}
		if !id.IsAdmin {
			WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError("Administrator access required."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
