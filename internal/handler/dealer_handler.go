package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Adiaj449/wiresandnails/internal/dealer"
	"github.com/Adiaj449/wiresandnails/internal/middleware"
	"github.com/Adiaj449/wiresandnails/internal/model"
)

const maxDealerBodyBytes = 1 << 16

// DealerServiceInterface は販売店ハンドラーが必要とするサービスインターフェース。
type DealerServiceInterface interface {
	List(ctx context.Context, who model.Identity) ([]*model.Dealer, error)
	ListAll(ctx context.Context, who model.Identity) ([]*model.Dealer, error)
	Get(ctx context.Context, who model.Identity, id int64) (*model.Dealer, error)
	Save(ctx context.Context, who model.Identity, in dealer.SaveInput) (*model.Dealer, bool, error)
	Delete(ctx context.Context, who model.Identity, id int64) error
}

// DealerHandler は販売店APIのHTTPハンドラー。
type DealerHandler struct {
	service DealerServiceInterface
}

// NewDealerHandler はDealerHandlerを生成する。
func NewDealerHandler(service DealerServiceInterface) *DealerHandler {
	return &DealerHandler{service: service}
}

// dealerResponse は販売店のJSONレスポンス。
type dealerResponse struct {
	ID              int64     `json:"id"`
	PartnerUserID   int64     `json:"partner_user_id"`
	PartnerUsername string    `json:"partner_username,omitempty"`
	CompanyName     string    `json:"company_name"`
	ContactPerson   string    `json:"contact_person"`
	PhoneNumber     string    `json:"phone_number"`
	GSTINNumber     string    `json:"gstin_number"`
	Address         string    `json:"address"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type dealerListResponse struct {
	Success bool             `json:"success"`
	Dealers []dealerResponse `json:"dealers"`
}

type dealerDetailResponse struct {
	Success bool           `json:"success"`
	Dealer  dealerResponse `json:"dealer"`
}

type dealerSaveResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Dealer  dealerResponse `json:"dealer"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// saveDealerRequest はPOST /api/dealersのリクエストボディ。
type saveDealerRequest struct {
	ID            dealerID `json:"id"`
	CompanyName   string   `json:"companyName"`
	ContactPerson string   `json:"contactPerson"`
	PhoneNumber   string   `json:"phoneNumber"`
	GSTINNumber   string   `json:"gstinNumber"`
	Address       string   `json:"address"`
}

// dealerID はJSONの数値・数値文字列・nullを受け付ける販売店ID。
// フォームから組み立てたボディでは文字列で送られることがある。
type dealerID int64

// UnmarshalJSON はjson.Unmarshalerを実装する。
func (d *dealerID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*d = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid dealer id %q", s)
	}
	*d = dealerID(n)
	return nil
}

// List は呼び出し元が閲覧できる販売店一覧を返す。
// GET /api/dealers
func (h *DealerHandler) List(w http.ResponseWriter, r *http.Request) {
	dealers, err := h.service.List(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dealerListResponse{Success: true, Dealers: toDealerResponses(dealers)})
}

// ListAll は全販売店を所有者順で返す。管理者専用。
// GET /api/admin/all-dealers
func (h *DealerHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	dealers, err := h.service.ListAll(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dealerListResponse{Success: true, Dealers: toDealerResponses(dealers)})
}

// Get は販売店の詳細を返す。
// GET /api/dealers/{id}
func (h *DealerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseDealerIDParam(w, r)
	if !ok {
		return
	}

	d, err := h.service.Get(r.Context(), middleware.IdentityFromContext(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dealerDetailResponse{Success: true, Dealer: toDealerResponse(d)})
}

// Save は販売店を作成または更新する。
// POST /api/dealers
func (h *DealerHandler) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDealerBodyBytes)

	var req saveDealerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newMalformedBodyError())
		return
	}

	d, created, err := h.service.Save(r.Context(), middleware.IdentityFromContext(r.Context()), dealer.SaveInput{
		ID:            int64(req.ID),
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		GSTINNumber:   req.GSTINNumber,
		Address:       req.Address,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	action, status := "updated", http.StatusOK
	if created {
		action, status = "added", http.StatusCreated
	}
	writeJSON(w, status, dealerSaveResponse{
		Success: true,
		Message: fmt.Sprintf("Dealer %s successfully %s.", d.CompanyName, action),
		Dealer:  toDealerResponse(d),
	})
}

// Delete は販売店を削除する。
// DELETE /api/dealers/{id}
func (h *DealerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseDealerIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Dealer deleted successfully."})
}

// parseDealerIDParam はURLパスの{id}を正の整数として解析する。
// 不正な場合は400を書き込んでfalseを返す。
func parseDealerIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Invalid dealer ID."))
		return 0, false
	}
	return id, true
}

func toDealerResponse(d *model.Dealer) dealerResponse {
	return dealerResponse{
		ID:              d.ID,
		PartnerUserID:   d.PartnerUserID,
		PartnerUsername: d.PartnerUsername,
		CompanyName:     d.CompanyName,
		ContactPerson:   d.ContactPerson,
		PhoneNumber:     d.PhoneNumber,
		GSTINNumber:     d.GSTINNumber,
		Address:         d.Address,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toDealerResponses(dealers []*model.Dealer) []dealerResponse {
	out := make([]dealerResponse, 0, len(dealers))
	for _, d := range dealers {
		out = append(out, toDealerResponse(d))
	}
	return out
}
