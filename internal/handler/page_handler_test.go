package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Adiaj449/wiresandnails/internal/model"
)

func TestLanding_Anonymous(t *testing.T) {
	h := NewPageHandler(&mockDealerService{})

	w := httptest.NewRecorder()
	h.Landing(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `action="/auth/login"`) {
		t.Error("login form missing")
	}
	if strings.Contains(body, "Invalid Username or Password.") {
		t.Error("failure message must not be shown without ?login=failed")
	}
}

func TestLanding_LoginFailedMessage(t *testing.T) {
	h := NewPageHandler(&mockDealerService{})

	w := httptest.NewRecorder()
	h.Landing(w, httptest.NewRequest(http.MethodGet, "/?login=failed", nil))

	if !strings.Contains(w.Body.String(), "Invalid Username or Password.") {
		t.Error("failure message missing")
	}
}

func TestLanding_LoggedInRedirects(t *testing.T) {
	h := NewPageHandler(&mockDealerService{})

	w := httptest.NewRecorder()
	h.Landing(w, withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), partnerAlice))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/partner/dashboard" {
		t.Errorf("status = %d, Location = %q", w.Code, w.Header().Get("Location"))
	}
}

func TestDashboard_EscapesDealerFields(t *testing.T) {
	h := NewPageHandler(&mockDealerService{listFn: func(context.Context, model.Identity) ([]*model.Dealer, error) {
		return []*model.Dealer{{ID: 1, CompanyName: `<script>alert(1)</script>`, PhoneNumber: "1"}}, nil
	}})

	w := httptest.NewRecorder()
	h.Dashboard(w, withIdentity(httptest.NewRequest(http.MethodGet, "/partner/dashboard", nil), partnerAlice))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("dealer name was not escaped")
	}
	if !strings.Contains(body, "alice") {
		t.Error("username missing")
	}
	if strings.Contains(body, `class="badge"`) {
		t.Error("admin badge shown for partner")
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", w.Header().Get("Cache-Control"))
	}
}

func TestDashboard_AdminSeesPartnerColumn(t *testing.T) {
	h := NewPageHandler(&mockDealerService{listFn: func(context.Context, model.Identity) ([]*model.Dealer, error) {
		return []*model.Dealer{{ID: 1, PartnerUsername: "bob", CompanyName: "Zeta", PhoneNumber: "1"}}, nil
	}})

	w := httptest.NewRecorder()
	h.Dashboard(w, withIdentity(httptest.NewRequest(http.MethodGet, "/partner/dashboard", nil), adminUser))

	body := w.Body.String()
	if !strings.Contains(body, "<th>Partner</th>") || !strings.Contains(body, "bob") {
		t.Error("partner column missing for admin")
	}
}

func TestDashboard_ServiceError(t *testing.T) {
	h := NewPageHandler(&mockDealerService{listFn: func(context.Context, model.Identity) ([]*model.Dealer, error) {
		return nil, errors.New("db down")
	}})

	w := httptest.NewRecorder()
	h.Dashboard(w, withIdentity(httptest.NewRequest(http.MethodGet, "/partner/dashboard", nil), partnerAlice))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Error("internal error leaked")
	}
}
