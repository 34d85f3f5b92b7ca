package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cartHandler "github.com/sojo06/smartcart/internal/handler/cart"
	dialogueHandler "github.com/sojo06/smartcart/internal/handler/dialogue"
	"github.com/sojo06/smartcart/internal/handler/stream"
	middlewarePkg "github.com/sojo06/smartcart/internal/middleware"
	"github.com/sojo06/smartcart/internal/model/ruleset"
	cartService "github.com/sojo06/smartcart/internal/service/cart"
	dialogueService "github.com/sojo06/smartcart/internal/service/dialogue"
	"github.com/sojo06/smartcart/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(rulesets ruleset.Store, dialogueSvc *dialogueService.Service, cartSvc *cartService.Service, replyDelay time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	dialogueH := dialogueHandler.New(dialogueSvc, rulesets)
	cartH := cartHandler.New(cartSvc)
	cartWS := cartHandler.NewWebSocketHandler(cartSvc)
	streamH := stream.New(dialogueSvc, replyDelay)

	r.Route("/api", func(api chi.Router) {
		dialogueH.RegisterRoutes(api)
		cartH.RegisterRoutes(api)
		cartWS.RegisterWebSocketRoutes(api)

		// Streaming variant of submit for the typing-effect UI.
		api.Get("/dialogue/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}
			// Errors are reported on the stream itself.
			_ = streamH.HandleStreamRequest(r.Context(), w, sessionID, userMessage)
		})
	})

	return r
}
