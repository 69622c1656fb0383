package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/example/outreach-scheduler/internal/persistence"
)

// HistoryStore reads the outreach/response join for export.
type HistoryStore interface {
	ListOutreachHistory(ctx context.Context, roomID string) ([]persistence.OutreachHistory, error)
}

// HistoryExporter flattens a room's outreach history into tabular rows.
type HistoryExporter struct {
	outreaches HistoryStore
	logger     *slog.Logger
}

// NewHistoryExporter constructs a history exporter with the provided store.
func NewHistoryExporter(outreaches HistoryStore) *HistoryExporter {
	return NewHistoryExporterWithLogger(outreaches, nil)
}

// NewHistoryExporterWithLogger constructs a history exporter with a specified logger.
func NewHistoryExporterWithLogger(outreaches HistoryStore, logger *slog.Logger) *HistoryExporter {
	return &HistoryExporter{outreaches: outreaches, logger: defaultLogger(logger)}
}

// ExportRoom returns one row per response for every outreach in the room,
// ordered by outreach timestamp then response timestamp. An outreach without
// responses contributes exactly one row with empty response fields.
func (e *HistoryExporter) ExportRoom(ctx context.Context, roomID string) ([]HistoryRow, error) {
	history, err := e.outreaches.ListOutreachHistory(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load outreach history: %w", err)
	}

	var rows []HistoryRow
	for _, entry := range history {
		base := HistoryRow{
			RoomID:          entry.Outreach.RoomID,
			OutreachEventID: entry.Outreach.EventID,
			PromptName:      entry.Outreach.PromptName,
			SentAt:          entry.Outreach.SentAt,
			Message:         entry.Outreach.Message,
		}

		if len(entry.Responses) == 0 {
			rows = append(rows, base)
			continue
		}

		for _, response := range entry.Responses {
			row := base
			row.ResponseEventID = response.EventID
			receivedAt := response.ReceivedAt
			row.ReceivedAt = &receivedAt
			row.ResponseMessage = response.Message
			rows = append(rows, row)
		}
	}

	return rows, nil
}

var csvHeader = []string{
	"room_id",
	"outreach_event_id",
	"prompt_name",
	"outreach_timestamp",
	"outreach_message",
	"response_event_id",
	"response_timestamp",
	"response_message",
}

// WriteCSV serialises a room's export as CSV, header row included.
func (e *HistoryExporter) WriteCSV(ctx context.Context, w io.Writer, roomID string) error {
	rows, err := e.ExportRoom(ctx, roomID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		receivedAt := ""
		if row.ReceivedAt != nil {
			receivedAt = row.ReceivedAt.UTC().Format(time.RFC3339)
		}

		record := []string{
			row.RoomID,
			row.OutreachEventID,
			row.PromptName,
			row.SentAt.UTC().Format(time.RFC3339),
			row.Message,
			row.ResponseEventID,
			receivedAt,
			row.ResponseMessage,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}
