package symptom

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/care4u/backend/internal/model/chat"
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	"github.com/zhouzirui/care4u/backend/pkg/utils"
)

// Handler serves the symptom catalog and quick replies.
type Handler struct {
	catalog symptom.Store
}

// New 创建症状目录处理器
func New(catalog symptom.Store) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes 注册目录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/symptoms", h.handleListSymptoms)
	r.Get("/quick-replies", h.handleQuickReplies)
}

func (h *Handler) handleListSymptoms(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.List())
}

func (h *Handler) handleQuickReplies(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, chat.QuickReplies())
}
