package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"calendar-manager/internal/calendar"
)

const SessionCookie = "calendar_session"

const (
	sessionIdle  = 30 * time.Minute
	sessionSweep = time.Minute
	maxSessions  = 10000
)

type entry struct {
	sess calendar.Session
	seen time.Time
}

// sessions is the in-memory registry of per-browser UI state. Entries idle
// for longer than idle are swept; at max entries the least recently seen one
// is evicted.
type sessions struct {
	mu   sync.Mutex
	m    map[uuid.UUID]*entry
	max  int
	idle time.Duration
	done chan struct{}
	once sync.Once
}

func newSessions(limit int, idle time.Duration) *sessions {
	return &sessions{
		m:    make(map[uuid.UUID]*entry),
		max:  limit,
		idle: idle,
		done: make(chan struct{}),
	}
}

func (s *sessions) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-t.C:
			s.expire(now)
		}
	}
}

func (s *sessions) expire(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.m {
		if now.Sub(e.seen) > s.idle {
			delete(s.m, id)
		}
	}
}

func (s *sessions) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// with runs fn on session id under the registry lock, creating the session
// if needed, and returns a copy of the resulting state.
func (s *sessions) with(id uuid.UUID, fn func(*calendar.Session) error) (calendar.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		if len(s.m) >= s.max {
			s.evictOldest()
		}
		e = &entry{}
		s.m[id] = e
	}
	e.seen = time.Now()
	var err error
	if fn != nil {
		err = fn(&e.sess)
	}
	return e.sess, err
}

// existing runs fn on the caller's session only if the request carries a
// cookie for a live session. It never creates one.
func (s *sessions) existing(r *http.Request, fn func(*calendar.Session)) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.m[id]; ok {
		e.seen = time.Now()
		fn(&e.sess)
	}
}

// forEach applies fn to every session; used when an event is deleted.
func (s *sessions) forEach(fn func(*calendar.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.m {
		fn(&e.sess)
	}
}

// evictOldest drops the least recently seen entry. Caller holds mu.
func (s *sessions) evictOldest() {
	var (
		oldest uuid.UUID
		at     time.Time
		found  bool
	)
	for id, e := range s.m {
		if !found || e.seen.Before(at) {
			oldest, at, found = id, e.seen, true
		}
	}
	if found {
		delete(s.m, oldest)
	}
}

// sessionID reads the session cookie. A browser without a valid cookie gets
// a new id.
func sessionID(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id
		}
	}
	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionIdle / time.Second),
	})
	return id
}
