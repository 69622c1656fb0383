package application

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/example/outreach-scheduler/internal/testfixtures"
)

func TestHistoryExporter_ExportRoom_OneRowPerResponse(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	exporter := NewHistoryExporter(store)
	ctx := context.Background()

	outreach := testfixtures.NewOutreachFixture()
	if err := store.InsertOutreach(ctx, outreach); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}

	first := testfixtures.NewResponseFixture(outreach)
	second := testfixtures.NewResponseFixture(outreach)
	if err := store.InsertResponse(ctx, first); err != nil {
		t.Fatalf("InsertResponse failed: %v", err)
	}
	if err := store.InsertResponse(ctx, second); err != nil {
		t.Fatalf("InsertResponse failed: %v", err)
	}

	rows, err := exporter.ExportRoom(ctx, outreach.RoomID)
	if err != nil {
		t.Fatalf("ExportRoom failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for 2 responses, got %d", len(rows))
	}

	for i, row := range rows {
		if row.OutreachEventID != outreach.EventID {
			t.Errorf("row %d references outreach %q, want %q", i, row.OutreachEventID, outreach.EventID)
		}
		if row.Message != outreach.Message {
			t.Errorf("row %d carries outreach message %q, want %q", i, row.Message, outreach.Message)
		}
	}
	if rows[0].ResponseEventID != first.EventID || rows[1].ResponseEventID != second.EventID {
		t.Errorf("rows not ordered by response timestamp: %q, %q", rows[0].ResponseEventID, rows[1].ResponseEventID)
	}
}

func TestHistoryExporter_ExportRoom_NoResponsesYieldsSingleRow(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	exporter := NewHistoryExporter(store)
	ctx := context.Background()

	outreach := testfixtures.NewOutreachFixture()
	if err := store.InsertOutreach(ctx, outreach); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}

	rows, err := exporter.ExportRoom(ctx, outreach.RoomID)
	if err != nil {
		t.Fatalf("ExportRoom failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for an unanswered outreach, got %d", len(rows))
	}

	row := rows[0]
	if row.ResponseEventID != "" || row.ReceivedAt != nil || row.ResponseMessage != "" {
		t.Errorf("expected empty response fields, got %+v", row)
	}
}

func TestHistoryExporter_ExportRoom_OrderedByOutreachTimestamp(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	exporter := NewHistoryExporter(store)
	ctx := context.Background()

	roomID := "!export:example.com"
	later := testfixtures.NewOutreachFixture(
		testfixtures.OutreachInRoom(roomID),
		testfixtures.OutreachSentAt(testfixtures.ReferenceTime().Add(2*time.Hour)),
	)
	earlier := testfixtures.NewOutreachFixture(
		testfixtures.OutreachInRoom(roomID),
		testfixtures.OutreachSentAt(testfixtures.ReferenceTime().Add(time.Hour)),
	)
	// Insertion order must not matter.
	if err := store.InsertOutreach(ctx, later); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}
	if err := store.InsertOutreach(ctx, earlier); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}

	rows, err := exporter.ExportRoom(ctx, roomID)
	if err != nil {
		t.Fatalf("ExportRoom failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].OutreachEventID != earlier.EventID || rows[1].OutreachEventID != later.EventID {
		t.Errorf("rows not ordered by outreach timestamp: %q, %q", rows[0].OutreachEventID, rows[1].OutreachEventID)
	}
}

func TestHistoryExporter_WriteCSV(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	exporter := NewHistoryExporter(store)
	ctx := context.Background()

	outreach := testfixtures.NewOutreachFixture()
	if err := store.InsertOutreach(ctx, outreach); err != nil {
		t.Fatalf("InsertOutreach failed: %v", err)
	}
	response := testfixtures.NewResponseFixture(outreach)
	if err := store.InsertResponse(ctx, response); err != nil {
		t.Fatalf("InsertResponse failed: %v", err)
	}

	var buf strings.Builder
	if err := exporter.WriteCSV(ctx, &buf, outreach.RoomID); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	if records[0][0] != "room_id" || records[0][6] != "response_timestamp" {
		t.Errorf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[1] != outreach.EventID || row[5] != response.EventID {
		t.Errorf("unexpected identifiers in row: %v", row)
	}
	if row[3] != outreach.SentAt.UTC().Format(time.RFC3339) {
		t.Errorf("unexpected outreach timestamp: %q", row[3])
	}
	if row[6] != response.ReceivedAt.UTC().Format(time.RFC3339) {
		t.Errorf("unexpected response timestamp: %q", row[6])
	}
}
