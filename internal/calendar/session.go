package calendar

import "errors"

var ErrNoSelection = errors.New("no event selected")

// Session is the UI state of one browser: the selected event, if any, and
// whether its edit form is open. The zero value has nothing selected.
//
//	nothing selected -> Select -> selected, form closed
//	selected, form closed -> OpenEdit -> selected, form open
//	selected, form open -> Save | Cancel -> selected, form closed
//	selected -> Deleted -> nothing selected
type Session struct {
	selected int64
	editing  bool
}

// Select makes id the current event and closes any open form.
func (s *Session) Select(id int64) {
	s.selected = id
	s.editing = false
}

func (s *Session) Selected() (int64, bool) {
	return s.selected, s.selected != 0
}

func (s *Session) Editing() bool { return s.editing }

func (s *Session) OpenEdit() error {
	if s.selected == 0 {
		return ErrNoSelection
	}
	s.editing = true
	return nil
}

// Save closes the form after a successful update.
func (s *Session) Save() { s.editing = false }

func (s *Session) Cancel() { s.editing = false }

// Deleted clears the selection when id was the selected event.
func (s *Session) Deleted(id int64) {
	if s.selected == id {
		s.Reset()
	}
}

func (s *Session) Reset() {
	s.selected = 0
	s.editing = false
}
