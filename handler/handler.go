package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"restaurant-cart/cart"
	"restaurant-cart/format"
	"restaurant-cart/notify"
	"restaurant-cart/page"
	"restaurant-cart/service"
	"restaurant-cart/validate"
)

// SessionCookie carries the browsing session id.
const SessionCookie = "session_id"

// maxPageBytes bounds the HTML accepted by the page helpers.
const maxPageBytes = 1 << 20

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc service.ServiceInterface
	log *zap.Logger
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: s, log: log}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	// Cart
	r.HandleFunc("/cart/add", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/remove", h.RemoveFromCart).Methods("POST")
	r.HandleFunc("/cart/update", h.UpdateCart).Methods("POST")
	r.HandleFunc("/cart/clear", h.ClearCart).Methods("POST")
	r.HandleFunc("/cart/list", h.ListCart).Methods("GET")
	r.HandleFunc("/cart/badge", h.Badge).Methods("GET")

	r.HandleFunc("/notifications", h.Notifications).Methods("GET")

	// Forms
	r.HandleFunc("/validate/password-strength", h.PasswordStrength).Methods("POST")
	r.HandleFunc("/validate/password-match", h.PasswordMatch).Methods("POST")
	r.HandleFunc("/validate/{form:register|login|checkout}", h.ValidateForm).Methods("POST")

	// Page helpers
	r.HandleFunc("/page/watch", h.WatchPage).Methods("POST")
	r.HandleFunc("/page/watch", h.UnwatchPage).Methods("DELETE")
	r.HandleFunc("/page/menu/filter", h.FilterMenu).Methods("POST")
	r.HandleFunc("/page/checkout/payment", h.TogglePayment).Methods("POST")
}

// --- request / response shapes ---
type cartItemReq struct {
	ItemID   string `json:"item_id"`
	Quantity *int   `json:"quantity,omitempty"` // defaults to 1 for add
}

type watchReq struct {
	Path string `json:"path"`
}

type toast struct {
	Message string       `json:"message"`
	Level   notify.Level `json:"level"`
	Class   string       `json:"class"`
	Icon    string       `json:"icon"`
	At      time.Time    `json:"at"`
	AtText  string       `json:"at_text"`
}

type passwordReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeSvcErr maps service errors to status codes.
func (h *Handler) writeSvcErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidArgument), errors.Is(err, service.ErrSessionRequired):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// sessionID returns the request's session id, issuing a new session cookie
// when none was sent.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func decodeItem(w http.ResponseWriter, r *http.Request) (cartItemReq, bool) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if req.ItemID == "" {
		writeErr(w, http.StatusBadRequest, "item_id is required")
		return req, false
	}
	return req, true
}

// --- Handler ---

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddToCart handles POST /cart/add
// body: { "item_id": "12", "quantity": 2 }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if err := h.svc.AddToCart(r.Context(), sid, req.ItemID, qty); err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFromCart handles POST /cart/remove
// body: { "item_id": "12" }
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveFromCart(r.Context(), sid, req.ItemID); err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// UpdateCart handles POST /cart/update; the quantity is clamped to the
// quantity input's range and 0 removes the item.
// body: { "item_id": "12", "quantity": 3 }
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}
	if req.Quantity == nil {
		writeErr(w, http.StatusBadRequest, "quantity is required")
		return
	}
	qty := validate.ClampQuantity(*req.Quantity)
	if err := h.svc.UpdateQuantity(r.Context(), sid, req.ItemID, qty); err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ClearCart handles POST /cart/clear
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCart(r.Context(), sessionID(w, r)); err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ListCart handles GET /cart/list
func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCart(r.Context(), sessionID(w, r))
	if err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Badge handles GET /cart/badge
func (h *Handler) Badge(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Badge(r.Context(), sessionID(w, r))
	if err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Notifications handles GET /notifications and drains the pending toasts.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.svc.Notifications(r.Context(), sessionID(w, r))
	if err != nil {
		h.writeSvcErr(w, err)
		return
	}
	out := make([]toast, 0, len(ns))
	for _, n := range ns {
		out = append(out, toast{
			Message: n.Message,
			Level:   n.Level,
			Class:   n.ToastClass(),
			Icon:    n.Level.Icon(),
			At:      n.At,
			AtText:  format.Date(n.At),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// WatchPage handles POST /page/watch and starts the page's refresh timers,
// replacing the session's previous page.
// body: { "path": "/order/12" }
func (h *Handler) WatchPage(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	var req watchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	g, err := h.svc.Watch(r.Context(), sid, req.Path)
	if err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":         req.Path,
		"timers":       g.Len(),
		"order_status": g.Len() > 1,
	})
}

// UnwatchPage handles DELETE /page/watch
func (h *Handler) UnwatchPage(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unwatch(r.Context(), sessionID(w, r)); err != nil {
		h.writeSvcErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// ValidateForm handles POST /validate/{register|login|checkout}. A failed
// check answers 422 and is queued as an error notification.
func (h *Handler) ValidateForm(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	var form interface{ Validate() error }
	switch mux.Vars(r)["form"] {
	case "register":
		form = &validate.Registration{}
	case "login":
		form = &validate.Login{}
	default:
		form = &validate.Checkout{}
	}
	if err := json.NewDecoder(r.Body).Decode(form); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	verr := form.Validate()
	if verr == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := h.svc.ReportValidation(r.Context(), sid, verr); err != nil {
		h.writeSvcErr(w, err)
		return
	}
	var fe *validate.Error
	field := ""
	if errors.As(verr, &fe) {
		field = fe.Field
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Error(), "field": field})
}

// PasswordStrength handles POST /validate/password-strength
func (h *Handler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req passwordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusOK, validate.PasswordStrength(req.Password))
}

// PasswordMatch handles POST /validate/password-match
func (h *Handler) PasswordMatch(w http.ResponseWriter, r *http.Request) {
	var req passwordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	m := validate.PasswordMatch(req.Password, req.ConfirmPassword)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":        m.String(),
		"submit_enabled": m.SubmitEnabled(),
	})
}

// FilterMenu handles POST /page/menu/filter?q=...
// body: rendered menu HTML
func (h *Handler) FilterMenu(w http.ResponseWriter, r *http.Request) {
	res, err := page.FilterMenu(io.LimitReader(r.Body, maxPageBytes), r.URL.Query().Get("q"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid html")
		return
	}
	html, err := res.HTML()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"visible":    res.Visible,
		"no_results": res.NoResults,
		"html":       html,
	})
}

// TogglePayment handles POST /page/checkout/payment?method=card
// body: rendered checkout HTML
func (h *Handler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	res, err := page.ToggleCardDetails(io.LimitReader(r.Body, maxPageBytes), r.URL.Query().Get("method"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid html")
		return
	}
	html, err := res.HTML()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}
