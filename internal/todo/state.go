// Package todo holds the list controller: an explicit State, the events that
// move it, and the effects a driver must perform on its behalf.
package todo

import (
	"strings"
	"time"

	"github.com/idilsaglam/todo/internal/model"
)

// NoticeTTL is how long a success notice stays visible.
const NoticeTTL = 2 * time.Second

// Draft is the content of the add form.
type Draft struct {
	Title       string
	Description string
}

func (d Draft) trimmed() Draft {
	return Draft{Title: strings.TrimSpace(d.Title), Description: strings.TrimSpace(d.Description)}
}

// Valid reports whether both fields are non-empty after trimming.
func (d Draft) Valid() bool {
	t := d.trimmed()
	return t.Title != "" && t.Description != ""
}

// EditSession is the single inline edit in progress, if any.
type EditSession struct {
	TargetID    string
	Title       string
	Description string
}

// Active reports whether an item is being edited.
func (e EditSession) Active() bool { return e.TargetID != "" }

func (e EditSession) draft() Draft { return Draft{Title: e.Title, Description: e.Description} }

type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is the one-slot banner. A new notice replaces the old one.
type Notice struct {
	Kind NoticeKind
	Text string
	Seq  uint64
}

func (n Notice) Success() string {
	if n.Kind == NoticeSuccess {
		return n.Text
	}
	return ""
}

func (n Notice) Error() string {
	if n.Kind == NoticeError {
		return n.Text
	}
	return ""
}

// State is everything the view renders. Reduce never mutates the Items
// backing array of the state it was given.
type State struct {
	Items    []model.Item
	Draft    Draft
	Edit     EditSession
	Notice   Notice
	InFlight int

	seq uint64
}

// Index returns the position of the first item with id, or -1.
func (s State) Index(id string) int {
	if id == "" {
		return -1
	}
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) succeed(text string) []Effect {
	s.seq++
	s.Notice = Notice{Kind: NoticeSuccess, Text: text, Seq: s.seq}
	return []Effect{ExpireNotice{Seq: s.seq, After: NoticeTTL}}
}

func (s *State) fail(text string) {
	s.seq++
	s.Notice = Notice{Kind: NoticeError, Text: text, Seq: s.seq}
}

// clearError drops a standing error; errors last until the next action.
func (s *State) clearError() {
	if s.Notice.Kind == NoticeError {
		s.Notice = Notice{}
	}
}
