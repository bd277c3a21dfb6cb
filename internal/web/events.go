package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"calendar-manager/internal/calendar"
	"calendar-manager/internal/handler"
	"calendar-manager/internal/middleware"
)

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (s *Server) calendarEvents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.h.CalendarEvents(r.Context(), &handler.CalendarEventsRequest{})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Events)
}

// listEvents feeds the delete list, newest start first.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.h.ListEvents(r.Context(), &handler.ListEventsRequest{})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendar.ToListRows(resp.Events))
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var f calendar.FormSubmission
	if !decode(w, r, &f) {
		return
	}
	in, err := f.Input(s.cfg.Location)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp, err := s.h.AddEvent(r.Context(), &handler.AddEventRequest{EventInput: in})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.h.GetEvent(r.Context(), &handler.GetEventRequest{ID: pathID(r)})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.detailView(resp))
}

// updateEvent saves the edit form and closes it for the caller's session.
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var f calendar.FormSubmission
	if !decode(w, r, &f) {
		return
	}
	in, err := f.Input(s.cfg.Location)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp, err := s.h.UpdateEvent(r.Context(), &handler.UpdateEventRequest{ID: id, EventInput: in})
	if err != nil {
		s.fail(w, err)
		return
	}

	s.sessions.existing(r, func(sess *calendar.Session) {
		if sel, ok := sess.Selected(); ok && sel == id {
			sess.Save()
		}
	})
	writeJSON(w, http.StatusOK, s.detailView(&handler.GetEventResponse{Event: resp.Event}))
}

// deleteEvent removes the event and clears it from every session that had it
// selected.
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, err := s.h.DeleteEvent(r.Context(), &handler.DeleteEventRequest{ID: id}); err != nil {
		s.fail(w, err)
		return
	}
	s.sessions.forEach(func(sess *calendar.Session) { sess.Deleted(id) })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportICS(w http.ResponseWriter, r *http.Request) {
	resp, err := s.h.ListEvents(r.Context(), &handler.ListEventsRequest{})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	if err := calendar.WriteICS(w, resp.Events, time.Now()); err != nil {
		s.log.Error().Err(err).Msg("write ics")
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req handler.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := s.h.Login(r.Context(), &req)
	if err != nil {
		s.fail(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, resp)
}
