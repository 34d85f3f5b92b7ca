package stream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	dialogueservice "github.com/sojo06/smartcart/internal/service/dialogue"
	"github.com/sojo06/smartcart/pkg/utils"
)

// Handler streams assistant replies over Server-Sent Events so the
// chat UI can render the text and each guidance step as it "types".
// The delay between chunks is cosmetic; zero is fully correct.
type Handler struct {
	dialogueSvc *dialogueservice.Service
	replyDelay  time.Duration
}

// New creates a stream handler. replyDelay spaces the streamed chunks.
func New(dialogueSvc *dialogueservice.Service, replyDelay time.Duration) *Handler {
	return &Handler{
		dialogueSvc: dialogueSvc,
		replyDelay:  replyDelay,
	}
}

// StreamResponse is one SSE chunk.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	StepIndex int    `json:"stepIndex,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest submits the utterance and streams the composed
// reply back chunk by chunk.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	assistant, err := h.dialogueSvc.Submit(ctx, sessionID, userMessage)
	if err != nil {
		utils.SendSSEChunk(w, flusher, StreamResponse{Event: "error", SessionID: sessionID, Error: err.Error()})
		return err
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "start", SessionID: sessionID})

	if err := h.pause(ctx); err != nil {
		return err
	}
	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "text", SessionID: sessionID, Content: assistant.Text})

	for i, step := range assistant.Steps {
		if err := h.pause(ctx); err != nil {
			return err
		}
		utils.SendSSEChunk(w, flusher, StreamResponse{
			Event:     "step",
			SessionID: sessionID,
			Content:   step,
			StepIndex: i + 1,
		})
	}

	utils.SendSSEChunk(w, flusher, StreamResponse{Event: "done", SessionID: sessionID, Finished: true})
	return nil
}

// pause waits the cosmetic delay, bailing out when the client is gone.
func (h *Handler) pause(ctx context.Context) error {
	if h.replyDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(h.replyDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
