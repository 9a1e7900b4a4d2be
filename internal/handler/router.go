package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/care4u/backend/internal/handler/chat"
	"github.com/zhouzirui/care4u/backend/internal/handler/stream"
	"github.com/zhouzirui/care4u/backend/internal/handler/symptom"
	"github.com/zhouzirui/care4u/backend/internal/handler/triage"
	"github.com/zhouzirui/care4u/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/care4u/backend/internal/middleware"
	symptomModel "github.com/zhouzirui/care4u/backend/internal/model/symptom"
	chatService "github.com/zhouzirui/care4u/backend/internal/service/chat"
	triageService "github.com/zhouzirui/care4u/backend/internal/service/triage"
	"github.com/zhouzirui/care4u/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(catalog symptomModel.Store, engine *triageService.Engine, chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondStatus(w, http.StatusOK, "ok")
	})

	r.Route("/api", func(api chi.Router) {
		symptom.New(catalog).RegisterRoutes(api)
		triage.New(engine).RegisterRoutes(api)
		chat.New(chatSvc).RegisterRoutes(api)
		stream.New(chatSvc).RegisterRoutes(api)
		ws.New(chatSvc).RegisterRoutes(api)
	})

	return r
}
