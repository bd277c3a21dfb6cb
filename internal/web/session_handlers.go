package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"calendar-manager/internal/calendar"
	"calendar-manager/internal/handler"
	"calendar-manager/internal/model"
)

// eventView is an event detail with the display times the side panel shows.
type eventView struct {
	*model.EventDetail
	StartDisplay string `json:"start_display"`
	EndDisplay   string `json:"end_display"`
}

type sessionView struct {
	SelectedID *int64                   `json:"selected_id"`
	Editing    bool                     `json:"editing"`
	Event      *eventView               `json:"event,omitempty"`
	Form       *calendar.FormSubmission `json:"form,omitempty"`
}

func (s *Server) detailView(resp *handler.GetEventResponse) *eventView {
	d := resp.Event
	return &eventView{
		EventDetail:  d,
		StartDisplay: calendar.FormatDisplayTime(d.Start.In(s.cfg.Location)),
		EndDisplay:   calendar.FormatDisplayTime(d.End.In(s.cfg.Location)),
	}
}

// respondSession writes the session state with the selected event's detail
// and, while editing, the prefilled form. A selection whose event is gone is
// cleared.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, sid uuid.UUID, sess calendar.Session) {
	view := sessionView{Editing: sess.Editing()}
	id, ok := sess.Selected()
	if !ok {
		writeJSON(w, http.StatusOK, view)
		return
	}

	resp, err := s.h.GetEvent(r.Context(), &handler.GetEventRequest{ID: id})
	if status.Code(err) == codes.NotFound {
		s.sessions.with(sid, func(sess *calendar.Session) error {
			sess.Deleted(id)
			return nil
		})
		writeJSON(w, http.StatusOK, sessionView{})
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	view.SelectedID = &id
	view.Event = s.detailView(resp)
	if view.Editing {
		f := calendar.FormFromDetail(resp.Event)
		view.Form = &f
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) sessionState(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	sess, _ := s.sessions.with(sid, nil)
	s.respondSession(w, r, sid, sess)
}

// selectEvent takes the raw calendar click payload. A payload without a
// usable id leaves the session unchanged.
func (s *Server) selectEvent(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sid := sessionID(w, r)
	sess, _ := s.sessions.with(sid, func(sess *calendar.Session) error {
		p, err := calendar.ParseClickPayload(raw)
		if err != nil {
			return nil
		}
		if id, ok := calendar.OnSelect(p); ok {
			sess.Select(id)
		}
		return nil
	})
	s.respondSession(w, r, sid, sess)
}

func (s *Server) openEdit(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	sess, err := s.sessions.with(sid, (*calendar.Session).OpenEdit)
	if errors.Is(err, calendar.ErrNoSelection) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.respondSession(w, r, sid, sess)
}

func (s *Server) cancelEdit(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	sess, _ := s.sessions.with(sid, func(sess *calendar.Session) error {
		sess.Cancel()
		return nil
	})
	s.respondSession(w, r, sid, sess)
}
