package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"calendar-manager/internal/model"
	"calendar-manager/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "calendar.db")
	st, err := store.Open(context.Background(), store.DriverSQLite, path,
		store.WithLocation(time.UTC), store.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func input(title string, participants ...string) model.EventInput {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return model.EventInput{
		Title:        title,
		Description:  "weekly sync",
		Start:        start,
		End:          start.Add(time.Hour),
		Participants: participants,
		Color:        "#ff0000",
	}
}

func countParticipants(t *testing.T, st *store.Store, eventID int64) int {
	t.Helper()
	var n int
	err := st.DB().QueryRow(`SELECT COUNT(*) FROM participants WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		t.Fatalf("count participants: %v", err)
	}
	return n
}

func countEvents(t *testing.T, st *store.Store) int {
	t.Helper()
	var n int
	if err := st.DB().QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		t.Fatalf("count events: %v", err)
	}
	return n
}

func TestAddAndGetEvent(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	in := input("Sync", "  Ann ", "", "Bo", "   ")
	in.AllDay = true
	id, err := st.AddEvent(ctx, in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	d, err := st.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.ID != id {
		t.Errorf("id: got %d want %d", d.ID, id)
	}
	if d.Title != in.Title || d.Description != in.Description {
		t.Errorf("title/description: got %q/%q", d.Title, d.Description)
	}
	if !d.Start.Equal(in.Start) || !d.End.Equal(in.End) {
		t.Errorf("times: got %v - %v", d.Start, d.End)
	}
	if !d.AllDay {
		t.Error("all_day not persisted")
	}
	if d.Color != "#ff0000" {
		t.Errorf("color: got %s", d.Color)
	}
	if want := []string{"Ann", "Bo"}; !reflect.DeepEqual(d.Participants, want) {
		t.Errorf("participants: got %v want %v", d.Participants, want)
	}
}

func TestAddEventDefaultColor(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	in := input("No color", "Ann")
	in.Color = ""
	id, err := st.AddEvent(ctx, in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	d, err := st.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Color != model.DefaultColor {
		t.Errorf("expected default color, got %s", d.Color)
	}
}

func TestAddEventValidation(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	backwards := input("Backwards", "Ann")
	backwards.End = backwards.Start.Add(-time.Minute)
	badColor := input("Color", "Ann")
	badColor.Color = "blue"

	tests := []struct {
		name  string
		in    model.EventInput
		field string
	}{
		{"empty title", input("", "Ann"), "title"},
		{"blank title", input(" \t ", "Ann"), "title"},
		{"no participants", input("X"), "participants"},
		{"blank participants", input("X", " ", "\t", ""), "participants"},
		{"end before start", backwards, "end"},
		{"bad color", badColor, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.AddEvent(ctx, tt.in)
			var ve *store.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field: got %q want %q", ve.Field, tt.field)
			}
		})
	}

	if n := countEvents(t, st); n != 0 {
		t.Errorf("expected nothing persisted, found %d events", n)
	}
}

func TestAddEventEqualTimes(t *testing.T) {
	st := setup(t)
	in := input("Instant", "Ann")
	in.End = in.Start
	if _, err := st.AddEvent(context.Background(), in); err != nil {
		t.Fatalf("equal start and end should be accepted: %v", err)
	}
}

func TestUpdateEvent(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	id, err := st.AddEvent(ctx, input("Before", "Ann", "Bo"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	start := time.Date(2024, 2, 3, 14, 30, 0, 0, time.UTC)
	upd := model.EventInput{
		Title:        "After",
		Description:  "moved",
		Start:        start,
		End:          start.Add(90 * time.Minute),
		Participants: []string{"Cy", " Di "},
		AllDay:       true,
		Color:        "#00ff00",
	}
	if err := st.UpdateEvent(ctx, id, upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	d, err := st.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Title != "After" || d.Description != "moved" || !d.AllDay || d.Color != "#00ff00" {
		t.Errorf("fields not updated: %+v", d.Event)
	}
	if !d.Start.Equal(upd.Start) || !d.End.Equal(upd.End) {
		t.Errorf("times not updated: %v - %v", d.Start, d.End)
	}
	if want := []string{"Cy", "Di"}; !reflect.DeepEqual(d.Participants, want) {
		t.Errorf("participants: got %v want %v", d.Participants, want)
	}
	if n := countParticipants(t, st, id); n != 2 {
		t.Errorf("old participant rows left behind: %d rows", n)
	}
}

func TestUpdateEventValidationKeepsOldRows(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	id, err := st.AddEvent(ctx, input("Keep", "Ann"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	err = st.UpdateEvent(ctx, id, input("Keep", " "))
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	d, err := st.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(d.Participants, []string{"Ann"}) {
		t.Errorf("participants changed by a rejected update: %v", d.Participants)
	}
}

func TestUpdateEventNotFound(t *testing.T) {
	st := setup(t)
	err := st.UpdateEvent(context.Background(), 9999, input("Ghost", "Ann"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	id, err := st.AddEvent(ctx, input("Gone", "Ann", "Bo"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := st.DeleteEvent(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetEvent(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if n := countParticipants(t, st, id); n != 0 {
		t.Errorf("cascade did not remove participants: %d rows", n)
	}

	// second delete is a no-op
	if err := st.DeleteEvent(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGetEventNotFound(t *testing.T) {
	st := setup(t)
	if _, err := st.GetEvent(context.Background(), 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListEvents(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	id1, err := st.AddEvent(ctx, input("E1", "Ann", "Bo"))
	if err != nil {
		t.Fatalf("add e1: %v", err)
	}
	id2, err := st.AddEvent(ctx, input("E2", "Cy"))
	if err != nil {
		t.Fatalf("add e2: %v", err)
	}

	list, err := st.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].ID != id1 || list[0].Participants != "Ann, Bo" {
		t.Errorf("e1: got %d %q", list[0].ID, list[0].Participants)
	}
	if list[1].ID != id2 || list[1].Participants != "Cy" {
		t.Errorf("e2: got %d %q", list[1].ID, list[1].Participants)
	}
}

func TestListEventsWithoutParticipants(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	// rows written behind the store's back
	_, err := st.DB().Exec(
		`INSERT INTO events (title, description, start_date, end_date, all_day, color)
		 VALUES ('Orphan', NULL, '2024-01-01 10:00:00', '2024-01-01 11:00:00', 0, NULL)`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	list, err := st.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(list))
	}
	if list[0].Participants != "" {
		t.Errorf("expected empty participant string, got %q", list[0].Participants)
	}
	if list[0].Color != model.DefaultColor {
		t.Errorf("expected default color for NULL, got %q", list[0].Color)
	}
}

func TestListEventsEmpty(t *testing.T) {
	st := setup(t)
	list, err := st.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no events, got %d", len(list))
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.db")
	ctx := context.Background()

	st, err := store.Open(ctx, store.DriverSQLite, path, store.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id, err := st.AddEvent(ctx, input("Persisted", "Ann"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	st.Close()

	// migrations must not run twice
	st, err = store.Open(ctx, store.DriverSQLite, path, store.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	d, err := st.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if d.Title != "Persisted" {
		t.Errorf("title: got %s", d.Title)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := store.Open(context.Background(), "mysql", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPersistenceErrorAfterClose(t *testing.T) {
	st := setup(t)
	st.Close()

	_, err := st.AddEvent(context.Background(), input("Closed", "Ann"))
	var pe *store.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	st, err := store.Open(ctx, store.DriverPostgres, dsn, store.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	id, err := st.AddEvent(ctx, input("Postgres", "Ann", "Bo"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	defer st.DeleteEvent(ctx, id)

	if err := st.UpdateEvent(ctx, id, input("Postgres 2", "Cy")); err != nil {
		t.Fatalf("update: %v", err)
	}
	d, err := st.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Title != "Postgres 2" || !reflect.DeepEqual(d.Participants, []string{"Cy"}) {
		t.Errorf("unexpected detail: %+v", d)
	}
}

func TestLocationReadsBackWallTime(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	path := filepath.Join(t.TempDir(), "calendar.db")
	st, err := store.Open(context.Background(), store.DriverSQLite, path, store.WithLocation(kst))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	if st.Location() != kst {
		t.Fatalf("location: got %v", st.Location())
	}

	in := input("Zoned", "Ann")
	in.Start = time.Date(2024, 1, 1, 10, 0, 0, 0, kst)
	in.End = in.Start.Add(time.Hour)
	id, err := st.AddEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	d, err := st.GetEvent(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Start.Location() != st.Location() || !d.Start.Equal(in.Start) {
		t.Errorf("start: got %v want %v", d.Start, in.Start)
	}
}
