package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	cartmodel "github.com/sojo06/smartcart/internal/model/cart"
	cartservice "github.com/sojo06/smartcart/internal/service/cart"
	"github.com/sojo06/smartcart/pkg/utils"
)

// Handler serves the shared cart session API. Every successful
// mutation responds with a fresh snapshot so the caller can re-render
// without a second round trip.
type Handler struct {
	cartSvc *cartservice.Service
}

// New creates the cart handler.
func New(cartSvc *cartservice.Service) *Handler {
	return &Handler{cartSvc: cartSvc}
}

// RegisterRoutes mounts the cart routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/cart", h.handleCreate)
	r.Get("/cart/{code}", h.handleSnapshot)
	r.Delete("/cart/{code}", h.handleTerminate)
	r.Post("/cart/{code}/join", h.handleJoin)
	r.Post("/cart/{code}/items", h.handleAddItem)
	r.Patch("/cart/{code}/items/{itemID}", h.handleSetQuantity)
	r.Delete("/cart/{code}/items/{itemID}", h.handleRemoveItem)
	r.Post("/cart/{code}/checkout", h.handleCheckout)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		HostID   string `json:"hostId"`
		HostName string `json:"hostName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.HostName == "" {
		utils.RespondError(w, http.StatusBadRequest, "hostName is required")
		return
	}

	snap, err := h.cartSvc.Create(r.Context(), payload.HostID, payload.HostName)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, snap)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	snap, err := h.cartSvc.GetSnapshot(r.Context(), code)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.cartSvc.Terminate(r.Context(), code); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "terminated"})
}

// mutationResponse pairs the mutated entity with a fresh snapshot so
// the caller can re-render without a second round trip.
type mutationResponse struct {
	Participant *cartmodel.Participant `json:"participant,omitempty"`
	Item        *cartmodel.LineItem    `json:"item,omitempty"`
	Cart        cartservice.Snapshot   `json:"cart"`
}

func (h *Handler) respondWithSnapshot(w http.ResponseWriter, r *http.Request, status int, code string, resp mutationResponse) {
	snap, err := h.cartSvc.GetSnapshot(r.Context(), code)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	resp.Cart = snap
	utils.RespondJSON(w, status, resp)
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var payload struct {
		ParticipantID string `json:"participantId"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ParticipantID == "" || payload.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "participantId and name are required")
		return
	}

	participant, err := h.cartSvc.Join(r.Context(), code, payload.ParticipantID, payload.Name)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	h.respondWithSnapshot(w, r, http.StatusCreated, code, mutationResponse{Participant: &participant})
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var payload struct {
		ParticipantID string `json:"participantId"`
		Name          string `json:"name"`
		Price         string `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	priceCents, err := cartmodel.ParseCents(payload.Price)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "price must be a decimal amount like 4.99")
		return
	}

	item, err := h.cartSvc.AddItem(r.Context(), code, payload.ParticipantID, payload.Name, priceCents)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	h.respondWithSnapshot(w, r, http.StatusCreated, code, mutationResponse{Item: &item})
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	itemID := chi.URLParam(r, "itemID")
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartSvc.SetQuantity(r.Context(), code, itemID, payload.Quantity)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	h.respondWithSnapshot(w, r, http.StatusOK, code, mutationResponse{Item: &item})
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	itemID := chi.URLParam(r, "itemID")
	if err := h.cartSvc.RemoveItem(r.Context(), code, itemID); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	h.respondWithSnapshot(w, r, http.StatusOK, code, mutationResponse{})
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var payload struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	totals, err := h.cartSvc.Checkout(r.Context(), code, payload.ParticipantID)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, totals)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cartservice.ErrSessionNotFound),
		errors.Is(err, cartservice.ErrItemNotFound),
		errors.Is(err, cartservice.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, cartservice.ErrInvalidPrice),
		errors.Is(err, cartservice.ErrItemNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, cartservice.ErrDuplicateParticipant):
		return http.StatusConflict
	case errors.Is(err, cartservice.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, cartservice.ErrSessionClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
