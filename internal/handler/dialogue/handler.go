package dialogue

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sojo06/smartcart/internal/model/ruleset"
	dialogueservice "github.com/sojo06/smartcart/internal/service/dialogue"
	"github.com/sojo06/smartcart/pkg/utils"
)

// Handler serves the typed-chat and voice dialogue surfaces. Both run
// the same intent pipeline; the voice routes only add the listening
// bracket around a submit.
type Handler struct {
	dialogueSvc *dialogueservice.Service
	rulesets    ruleset.Store
}

// New creates the dialogue handler.
func New(dialogueSvc *dialogueservice.Service, rulesets ruleset.Store) *Handler {
	return &Handler{
		dialogueSvc: dialogueSvc,
		rulesets:    rulesets,
	}
}

// RegisterRoutes mounts the dialogue routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/rulesets", h.handleListRuleSets)
	r.Post("/dialogue/session", h.handleCreateSession)
	r.Post("/dialogue/messages", h.handleSubmit)
	r.Get("/dialogue/{sessionID}/transcript", h.handleTranscript)
	r.Delete("/dialogue/{sessionID}", h.handleDestroy)
	r.Post("/dialogue/{sessionID}/listen/start", h.handleListenStart)
	r.Post("/dialogue/{sessionID}/listen/stop", h.handleListenStop)
	r.Post("/dialogue/{sessionID}/voice", h.handleVoiceUtterance)
}

func (h *Handler) handleListRuleSets(w http.ResponseWriter, r *http.Request) {
	type summary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Rules       int    `json:"rules"`
	}

	sets := h.rulesets.List()
	out := make([]summary, 0, len(sets))
	for _, set := range sets {
		out = append(out, summary{
			ID:          set.ID,
			Name:        set.Name,
			Description: set.Description,
			Rules:       len(set.Rules),
		})
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RuleSetID string `json:"ruleSetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.RuleSetID == "" {
		utils.RespondError(w, http.StatusBadRequest, "ruleSetId is required")
		return
	}

	session, err := h.dialogueSvc.CreateSession(r.Context(), payload.RuleSetID)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assistant, err := h.dialogueSvc.Submit(r.Context(), payload.SessionID, payload.Text)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, assistant)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	transcript, err := h.dialogueSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcript)
}

func (h *Handler) handleDestroy(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.dialogueSvc.Destroy(r.Context(), sessionID); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "destroyed"})
}

func (h *Handler) handleListenStart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.dialogueSvc.StartListening(r.Context(), sessionID); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"listening": true})
}

func (h *Handler) handleListenStop(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.dialogueSvc.StopListening(r.Context(), sessionID); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"listening": false})
}

func (h *Handler) handleVoiceUtterance(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assistant, err := h.dialogueSvc.CaptureUtterance(r.Context(), sessionID, payload.Text)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, assistant)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dialogueservice.ErrSessionNotFound),
		errors.Is(err, dialogueservice.ErrRuleSetNotFound):
		return http.StatusNotFound
	case errors.Is(err, dialogueservice.ErrEmptyInput),
		errors.Is(err, dialogueservice.ErrNotListening):
		return http.StatusBadRequest
	case errors.Is(err, dialogueservice.ErrSessionBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
