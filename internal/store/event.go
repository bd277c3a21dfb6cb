package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"calendar-manager/internal/model"
)

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) AddEvent(ctx context.Context, in model.EventInput) (int64, error) {
	ev, err := normalize(in)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.fail("add event", 0, err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO events (title, description, start_date, end_date, all_day, color)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		ev.Title, ev.Description, formatTime(ev.Start, s.loc), formatTime(ev.End, s.loc),
		boolToInt(ev.AllDay), ev.Color,
	).Scan(&id)
	if err != nil {
		return 0, s.fail("add event", 0, err)
	}

	if err := insertParticipants(ctx, tx, id, ev.Participants); err != nil {
		return 0, s.fail("add participants", id, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, s.fail("add event", id, err)
	}

	s.log.Debug().Int64("event_id", id).Int("participants", len(ev.Participants)).Msg("event added")
	return id, nil
}

// UpdateEvent overwrites every field of the event and replaces its
// participants. Participant ids are not preserved across updates.
func (s *Store) UpdateEvent(ctx context.Context, id int64, in model.EventInput) error {
	ev, err := normalize(in)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("update event", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE events
		 SET title=$1, description=$2, start_date=$3, end_date=$4, all_day=$5, color=$6
		 WHERE id=$7`,
		ev.Title, ev.Description, formatTime(ev.Start, s.loc), formatTime(ev.End, s.loc),
		boolToInt(ev.AllDay), ev.Color, id,
	)
	if err != nil {
		return s.fail("update event", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fail("update event", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	// replace participants
	if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE event_id=$1`, id); err != nil {
		return s.fail("delete participants", id, err)
	}
	if err := insertParticipants(ctx, tx, id, ev.Participants); err != nil {
		return s.fail("add participants", id, err)
	}

	if err := tx.Commit(); err != nil {
		return s.fail("update event", id, err)
	}
	return nil
}

// DeleteEvent removes the event; its participants go with it through the
// foreign key. Deleting an unknown id is not an error.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id); err != nil {
		return s.fail("delete event", id, err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id int64) (*model.EventDetail, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, s.fail("get event", id, err)
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx,
		`SELECT id, title, description, start_date, end_date, all_day, color
		 FROM events WHERE id = $1`, id)

	d := &model.EventDetail{}
	if err := s.scanEvent(row, &d.Event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, s.fail("get event", id, err)
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT name FROM participants WHERE event_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, s.fail("get participants", id, err)
	}
	defer rows.Close()

	d.Participants = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, s.fail("get participants", id, err)
		}
		d.Participants = append(d.Participants, name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("get participants", id, err)
	}
	return d, nil
}

// ListEvents returns every event in id order with its participant names
// joined by ", ".
func (s *Store) ListEvents(ctx context.Context) ([]model.EventSummary, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, s.fail("list events", 0, err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx,
		`SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.all_day, e.color, p.name
		 FROM events e
		 LEFT JOIN participants p ON p.event_id = e.id
		 ORDER BY e.id, p.id`)
	if err != nil {
		return nil, s.fail("list events", 0, err)
	}
	defer rows.Close()

	out := []model.EventSummary{}
	var names []string
	flush := func() {
		if len(out) > 0 {
			out[len(out)-1].Participants = strings.Join(names, ", ")
		}
		names = names[:0]
	}

	for rows.Next() {
		var (
			ev   model.Event
			name sql.NullString
		)
		if err := s.scanEvent(rowWithName{rows, &name}, &ev); err != nil {
			return nil, s.fail("list events", 0, err)
		}
		if len(out) == 0 || out[len(out)-1].ID != ev.ID {
			flush()
			out = append(out, model.EventSummary{Event: ev})
		}
		if name.Valid {
			names = append(names, name.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list events", 0, err)
	}
	flush()
	return out, nil
}

// rowWithName appends the joined participant column to an event scan.
type rowWithName struct {
	rows *sql.Rows
	name *sql.NullString
}

func (r rowWithName) Scan(dest ...any) error {
	return r.rows.Scan(append(dest, r.name)...)
}

func (s *Store) scanEvent(row scanner, ev *model.Event) error {
	var (
		desc, color sql.NullString
		start, end  string
		allDay      int64
	)
	if err := row.Scan(&ev.ID, &ev.Title, &desc, &start, &end, &allDay, &color); err != nil {
		return err
	}

	var err error
	if ev.Start, err = time.ParseInLocation(timeLayout, start, s.loc); err != nil {
		return fmt.Errorf("event %d start_date: %w", ev.ID, err)
	}
	if ev.End, err = time.ParseInLocation(timeLayout, end, s.loc); err != nil {
		return fmt.Errorf("event %d end_date: %w", ev.ID, err)
	}
	ev.Description = desc.String
	ev.AllDay = allDay != 0
	ev.Color = color.String
	if ev.Color == "" {
		ev.Color = model.DefaultColor
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, eventID int64, names []string) error {
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO participants (event_id, name) VALUES ($1,$2)`,
			eventID, name,
		); err != nil {
			return err
		}
	}
	return nil
}
