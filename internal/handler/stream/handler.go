package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/care4u/backend/internal/model/chat"
	chatService "github.com/zhouzirui/care4u/backend/internal/service/chat"
	"github.com/zhouzirui/care4u/backend/pkg/utils"
)

const defaultKeepAlive = 15 * time.Second

// Handler streams conversation events via Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	keepAlive time.Duration
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc, keepAlive: defaultKeepAlive}
}

// RegisterRoutes 注册事件流路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/conversations/{sessionID}/events", h.handleEvents)
}

// handleEvents sends a snapshot first, then every event the session
// publishes until the client leaves or the session is torn down.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.Session(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// Subscribe before the snapshot so no change falls between the two.
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	log.Printf("[sse] opening event stream for session=%s", sessionID)
	defer log.Printf("[sse] closing event stream for session=%s", sessionID)

	if err := utils.SendSSEEvent(w, flusher, "", "snapshot", session.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keep-alive"); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, eventID(event), string(event.Type), event); err != nil {
				log.Printf("[sse] write failed session=%s: %v", sessionID, err)
				return
			}
		}
	}
}

func eventID(event chat.Event) string {
	if event.Message != nil {
		return event.Message.ID
	}
	return event.MessageID
}
