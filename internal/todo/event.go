package todo

import (
	"time"

	"github.com/idilsaglam/todo/internal/model"
)

// Event is an input to Reduce: a user action or the outcome of an effect.
type Event interface{ event() }

// User actions.
type (
	Load       struct{}
	Submit     struct{ Draft Draft }
	BeginEdit  struct{ Item model.Item }
	CancelEdit struct{}
	// EditInput replaces the session's working values.
	EditInput struct{ Title, Description string }
	SaveEdit  struct{}
	Delete    struct{ ID string }
	// DeleteConfirmed answers a Confirm effect.
	DeleteConfirmed struct {
		ID string
		OK bool
	}
)

// Effect outcomes.
type (
	Loaded struct {
		Items []model.Item
		Err   error
	}
	Created struct {
		Draft Draft
		// Item is the backend's echo of the new entry, zero when absent.
		Item model.Item
		Err  error
	}
	Updated struct {
		ID          string
		Title       string
		Description string
		Err         error
	}
	Deleted struct {
		ID  string
		Err error
	}
	NoticeExpired struct{ Seq uint64 }
)

func (Load) event()            {}
func (Submit) event()          {}
func (BeginEdit) event()       {}
func (CancelEdit) event()      {}
func (EditInput) event()       {}
func (SaveEdit) event()        {}
func (Delete) event()          {}
func (DeleteConfirmed) event() {}
func (Loaded) event()          {}
func (Created) event()         {}
func (Updated) event()         {}
func (Deleted) event()         {}
func (NoticeExpired) event()   {}

// Effect describes work for the driver. Reduce only returns them.
type Effect interface{ effect() }

type (
	FetchAll struct{}
	Create   struct{ Title, Description string }
	Update   struct{ ID, Title, Description string }
	Remove   struct{ ID string }
	// Confirm asks the user before a delete; answer with DeleteConfirmed.
	Confirm struct {
		ID     string
		Prompt string
	}
	// ExpireNotice asks for NoticeExpired{Seq} after the delay.
	ExpireNotice struct {
		Seq   uint64
		After time.Duration
	}
)

func (FetchAll) effect()     {}
func (Create) effect()       {}
func (Update) effect()       {}
func (Remove) effect()       {}
func (Confirm) effect()      {}
func (ExpireNotice) effect() {}
