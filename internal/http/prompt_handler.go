package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/outreach-scheduler/internal/application"
)

type promptService interface {
	UpsertTemplate(ctx context.Context, roomID, name, template string) (application.Prompt, error)
	SetSchedule(ctx context.Context, roomID, name string, input application.ScheduleInput) (application.Prompt, error)
	ClearSchedule(ctx context.Context, roomID, name string) (application.Prompt, error)
	DeletePrompt(ctx context.Context, roomID, name string) error
	ListPrompts(ctx context.Context, roomID string) ([]application.Prompt, error)
}

type PromptHandler struct {
	service   promptService
	responder responder
	logger    *slog.Logger
}

func NewPromptHandler(service promptService, logger *slog.Logger) *PromptHandler {
	base := defaultLogger(logger)
	return &PromptHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PromptHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PromptHandler", operation, attrs...)
}

func (h *PromptHandler) pathParams(w http.ResponseWriter, r *http.Request) (roomID, name string, ok bool) {
	roomID, found := RoomIDFromContext(r.Context())
	if !found || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return "", "", false
	}
	name, found = PromptNameFromContext(r.Context())
	if !found || strings.TrimSpace(name) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidPromptName)
		return "", "", false
	}
	return roomID, name, true
}

func (h *PromptHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, name, ok := h.pathParams(w, r)
	if !ok {
		return
	}

	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Upsert", "room_id", roomID, "prompt", name, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode prompt request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Upsert", "room_id", roomID, "prompt", name)

	prompt, err := h.service.UpsertTemplate(r.Context(), roomID, name, req.MessageTemplate)
	if err != nil {
		logger.ErrorContext(r.Context(), "prompt upsert failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "prompt stored")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPromptDTO(prompt))
}

func (h *PromptHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, name, ok := h.pathParams(w, r)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetSchedule", "room_id", roomID, "prompt", name, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetSchedule", "room_id", roomID, "prompt", name)

	prompt, err := h.service.SetSchedule(r.Context(), roomID, name, application.ScheduleInput{
		At:             req.At,
		Every:          req.Every,
		MaxRandomDelay: req.MaxRandomDelay,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "prompt scheduled", "next_run", prompt.NextRun)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPromptDTO(prompt))
}

func (h *PromptHandler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, name, ok := h.pathParams(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "ClearSchedule", "room_id", roomID, "prompt", name)

	prompt, err := h.service.ClearSchedule(r.Context(), roomID, name)
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule clear failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "prompt schedule cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPromptDTO(prompt))
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, name, ok := h.pathParams(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Delete", "room_id", roomID, "prompt", name)

	if err := h.service.DeletePrompt(r.Context(), roomID, name); err != nil {
		logger.ErrorContext(r.Context(), "prompt delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "prompt deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "List", "room_id", roomID)

	prompts, err := h.service.ListPrompts(r.Context(), roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "prompt list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(prompts)).InfoContext(r.Context(), "prompts listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPromptsResponse{Prompts: toPromptDTOs(prompts)})
}

type promptRequest struct {
	MessageTemplate string `json:"message_template"`
}

type scheduleRequest struct {
	At             string `json:"at"`
	Every          string `json:"every,omitempty"`
	MaxRandomDelay string `json:"max_random_delay,omitempty"`
}

type listPromptsResponse struct {
	Prompts []promptDTO `json:"prompts"`
}

type promptDTO struct {
	RoomID          string  `json:"room_id"`
	Name            string  `json:"name"`
	MessageTemplate string  `json:"message_template"`
	NextRun         *string `json:"next_run,omitempty"`
	RunInterval     *string `json:"run_interval,omitempty"`
	MaxRandomDelay  *string `json:"max_random_delay,omitempty"`
}

func toPromptDTO(prompt application.Prompt) promptDTO {
	dto := promptDTO{
		RoomID:          prompt.RoomID,
		Name:            prompt.Name,
		MessageTemplate: prompt.MessageTemplate,
	}
	if prompt.NextRun != nil {
		nextRun := prompt.NextRun.UTC().Format(time.RFC3339)
		dto.NextRun = &nextRun
	}
	if prompt.RunInterval != nil {
		interval := prompt.RunInterval.String()
		dto.RunInterval = &interval
	}
	if prompt.MaxRandomDelay != nil {
		delay := prompt.MaxRandomDelay.String()
		dto.MaxRandomDelay = &delay
	}
	return dto
}

func toPromptDTOs(prompts []application.Prompt) []promptDTO {
	if len(prompts) == 0 {
		return nil
	}
	out := make([]promptDTO, 0, len(prompts))
	for _, prompt := range prompts {
		out = append(out, toPromptDTO(prompt))
	}
	return out
}
