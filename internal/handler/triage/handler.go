package triage

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	"github.com/zhouzirui/care4u/backend/internal/model/triage"
	triageService "github.com/zhouzirui/care4u/backend/internal/service/triage"
	"github.com/zhouzirui/care4u/backend/pkg/utils"
)

// Handler exposes the triage engine over HTTP.
type Handler struct {
	engine *triageService.Engine
}

// New 创建分诊处理器
func New(engine *triageService.Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes 注册分诊相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/triage", h.handleResolve)
}

type resolveRequest struct {
	Symptoms []string `json:"symptoms"`
	Severity string   `json:"severity"`
	Duration string   `json:"duration"`
}

type resolveResponse struct {
	triage.Verdict
	DurationLabel string `json:"durationLabel"`
	Escalate      bool   `json:"escalate"`
	Summary       string `json:"summary"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var payload resolveRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	severity := triage.Mild
	if strings.TrimSpace(payload.Severity) != "" {
		parsed, err := triage.ParseSeverity(payload.Severity)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		severity = parsed
	}

	duration := triage.Short
	if strings.TrimSpace(payload.Duration) != "" {
		parsed, err := triage.ParseDuration(payload.Duration)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		duration = parsed
	}

	verdict := h.engine.Resolve(symptom.NewSelection(payload.Symptoms...), severity, duration)
	utils.RespondJSON(w, http.StatusOK, resolveResponse{
		Verdict:       verdict,
		DurationLabel: duration.Label(),
		Escalate:      verdict.Escalate(),
		Summary:       verdict.Summary(),
	})
}
