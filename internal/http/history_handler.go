package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/outreach-scheduler/internal/application"
)

type historyService interface {
	WriteCSV(ctx context.Context, w io.Writer, roomID string) error
}

type HistoryHandler struct {
	service   historyService
	responder responder
	logger    *slog.Logger
}

func NewHistoryHandler(service historyService, logger *slog.Logger) *HistoryHandler {
	base := defaultLogger(logger)
	return &HistoryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *HistoryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "HistoryHandler", operation, attrs...)
}

// Export streams a room's outreach/response history as a CSV download.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "Export", "room_id", roomID)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "history.csv"))

	if err := h.service.WriteCSV(r.Context(), w, roomID); err != nil {
		// Headers are already out; the best we can do is log and cut the
		// response short so the client sees a truncated file.
		logger.ErrorContext(r.Context(), "history export failed", "error", err, "error_kind", application.ErrorKind(err))
		return
	}

	logger.InfoContext(r.Context(), "history exported")
}
