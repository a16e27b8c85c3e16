package register

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/toko-register/internal/catalog"
	"github.com/noah-isme/toko-register/internal/common"
	"github.com/noah-isme/toko-register/internal/pricing"
	"github.com/noah-isme/toko-register/internal/receipt"
)

// Handler wires the lane service to HTTP.
type Handler struct {
	Svc *Service
}

// scanRequest accepts either a catalog code or an ad-hoc item.
// Ad-hoc items carry unitPrice (fixed) or ratePerUnit with weight (weighed).
type scanRequest struct {
	Code        string         `json:"code"`
	Name        string         `json:"name" validate:"required_without=Code"`
	UnitPrice   *pricing.Money `json:"unitPrice" validate:"omitempty,gte=0,lte=1000000000000000"`
	RatePerUnit *pricing.Money `json:"ratePerUnit" validate:"omitempty,gte=0,lte=1000000000000000"`
	Weight      float64        `json:"weight" validate:"gte=0,lte=1000000"`
}

type checkoutResponse struct {
	ID       string         `json:"id"`
	Lane     string         `json:"lane"`
	ClosedAt time.Time      `json:"closedAt"`
	Items    []receipt.Line `json:"items"`
	Total    pricing.Money  `json:"total"`
	Output   string         `json:"output"`
}

// Routes mounts lane endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/catalog", h.Catalog)
	r.Get("/lanes", h.Lanes)
	r.Route("/lanes/{lane}", func(l chi.Router) {
		l.Post("/scan", h.Scan)
		l.Get("/subtotal", h.Subtotal)
		l.Post("/finalize", h.Finalize)
		l.Get("/receipts/{id}", h.Receipt)
		l.Get("/receipts/{id}/text", h.ReceiptText)
	})
}

// Catalog lists the configured item catalog.
func (h *Handler) Catalog(w http.ResponseWriter, _ *http.Request) {
	if !h.ready(w) {
		return
	}
	entries := h.Svc.Catalog().Entries()
	if entries == nil {
		entries = []catalog.Entry{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": entries})
}

// Lanes lists open lanes with their pending state.
func (h *Handler) Lanes(w http.ResponseWriter, _ *http.Request) {
	if !h.ready(w) {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.Lanes()})
}

// Scan adds an item to the lane.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	laneID := laneParam(r)
	var payload scanRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.Code = strings.TrimSpace(payload.Code)
	if err := pricing.Validator().Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid scan request", err.Error())
		return
	}

	var (
		item     pricing.Priceable
		subtotal pricing.Money
		err      error
	)
	if payload.Code != "" {
		item, subtotal, err = h.Svc.ScanCode(r.Context(), laneID, payload.Code, payload.Weight)
	} else {
		item, err = payload.item()
		if err == nil {
			subtotal, err = h.Svc.Scan(r.Context(), laneID, item)
		}
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"lane":     laneID,
			"item":     receipt.Line{Name: item.Name(), Price: item.Price()},
			"subtotal": subtotal,
		},
	})
}

// Subtotal reports the running total of the lane's pending receipt.
func (h *Handler) Subtotal(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	laneID := laneParam(r)
	subtotal, err := h.Svc.Subtotal(r.Context(), laneID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"lane": laneID, "subtotal": subtotal},
	})
}

// Finalize closes the pending receipt and returns it.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	checkout, err := h.Svc.Finalize(r.Context(), laneParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toCheckoutResponse(checkout)})
}

// Receipt returns a finalized checkout as JSON.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	checkout, ok := h.lookup(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toCheckoutResponse(checkout)})
}

// ReceiptText returns a finalized checkout in its printed form.
func (h *Handler) ReceiptText(w http.ResponseWriter, r *http.Request) {
	checkout, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(checkout.Receipt.Output()))
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (Checkout, bool) {
	if !h.ready(w) {
		return Checkout{}, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid receipt id", nil)
		return Checkout{}, false
	}
	checkout, err := h.Svc.Checkout(r.Context(), laneParam(r), id)
	if err != nil {
		h.writeError(w, err)
		return Checkout{}, false
	}
	return checkout, true
}

func laneParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "lane"))
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "register service not configured", nil)
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, pricing.ErrInvalidItem),
		errors.Is(err, pricing.ErrAmountOverflow),
		errors.Is(err, ErrInvalidLane),
		errors.Is(err, catalog.ErrWeightRequired):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, catalog.ErrUnknownCode),
		errors.Is(err, ErrCheckoutNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrNoCatalog):
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}

func (p scanRequest) item() (pricing.Priceable, error) {
	name := strings.TrimSpace(p.Name)
	switch {
	case p.UnitPrice != nil && p.RatePerUnit != nil:
		return nil, common.NewAppError("BAD_REQUEST", "unitPrice and ratePerUnit are mutually exclusive", http.StatusBadRequest, nil)
	case p.UnitPrice != nil:
		return pricing.NewFixedPriceItem(name, *p.UnitPrice), nil
	case p.RatePerUnit != nil:
		if p.Weight <= 0 {
			return nil, common.NewAppError("BAD_REQUEST", catalog.ErrWeightRequired.Error(), http.StatusBadRequest, catalog.ErrWeightRequired)
		}
		return pricing.NewWeighedItem(name, *p.RatePerUnit, p.Weight), nil
	default:
		return nil, common.NewAppError("BAD_REQUEST", "unitPrice or ratePerUnit is required", http.StatusBadRequest, nil)
	}
}

func toCheckoutResponse(c Checkout) checkoutResponse {
	return checkoutResponse{
		ID:       c.ID.String(),
		Lane:     c.Lane,
		ClosedAt: c.ClosedAt,
		Items:    c.Receipt.Lines(),
		Total:    c.Receipt.Total(),
		Output:   c.Receipt.Output(),
	}
}
