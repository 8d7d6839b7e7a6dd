package todo

import (
	"fmt"

	"github.com/idilsaglam/todo/internal/model"
)

const deletePrompt = "Are you sure you want to delete this item?"

// Reduce applies ev to s and returns the next state together with the
// effects the driver has to run. It performs no I/O.
func Reduce(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Load:
		s.clearError()
		s.InFlight++
		return s, []Effect{FetchAll{}}

	case Loaded:
		s.settle()
		if ev.Err != nil {
			s.fail(fmt.Sprintf("unable to load todo items: %v", ev.Err))
			return s, nil
		}
		s.Items = append([]model.Item(nil), ev.Items...)
		if s.Edit.Active() && s.Index(s.Edit.TargetID) < 0 {
			s.Edit = EditSession{}
		}
		return s, nil

	case Submit:
		s.clearError()
		s.Draft = ev.Draft
		if !ev.Draft.Valid() {
			s.fail(model.ErrValidation.Error())
			return s, nil
		}
		d := ev.Draft.trimmed()
		s.InFlight++
		return s, []Effect{Create{Title: d.Title, Description: d.Description}}

	case Created:
		s.settle()
		if ev.Err != nil {
			s.fail(fmt.Sprintf("unable to create todo item: %v", ev.Err))
			return s, nil
		}
		d := ev.Draft.trimmed()
		s.Items = appendItem(s.Items, model.Item{ID: ev.Item.ID, Title: d.Title, Description: d.Description})
		if s.Draft.trimmed() == d {
			s.Draft = Draft{}
		}
		return s, s.succeed("item added")

	case BeginEdit:
		s.clearError()
		if !ev.Item.Persisted() {
			s.fail(fmt.Sprintf("cannot edit %q: %v", ev.Item.Title, model.ErrNotPersisted))
			return s, nil
		}
		s.Edit = EditSession{TargetID: ev.Item.ID, Title: ev.Item.Title, Description: ev.Item.Description}
		return s, nil

	case CancelEdit:
		s.clearError()
		s.Edit = EditSession{}
		return s, nil

	case EditInput:
		if !s.Edit.Active() {
			return s, nil
		}
		s.Edit.Title, s.Edit.Description = ev.Title, ev.Description
		return s, nil

	case SaveEdit:
		s.clearError()
		if !s.Edit.Active() {
			return s, nil
		}
		if !s.Edit.draft().Valid() {
			s.fail(model.ErrValidation.Error())
			return s, nil
		}
		d := s.Edit.draft().trimmed()
		s.InFlight++
		return s, []Effect{Update{ID: s.Edit.TargetID, Title: d.Title, Description: d.Description}}

	case Updated:
		s.settle()
		if ev.Err != nil {
			s.fail(fmt.Sprintf("unable to update todo item: %v", ev.Err))
			return s, nil
		}
		if s.Edit.TargetID == ev.ID {
			s.Edit = EditSession{}
		}
		i := s.Index(ev.ID)
		if i < 0 {
			// deleted while the update was in flight
			return s, nil
		}
		items := append([]model.Item(nil), s.Items...)
		items[i].Title, items[i].Description = ev.Title, ev.Description
		s.Items = items
		return s, s.succeed("item updated")

	case Delete:
		s.clearError()
		if ev.ID == "" {
			s.fail(fmt.Sprintf("cannot delete: %v", model.ErrNotPersisted))
			return s, nil
		}
		return s, []Effect{Confirm{ID: ev.ID, Prompt: deletePrompt}}

	case DeleteConfirmed:
		if !ev.OK || ev.ID == "" {
			return s, nil
		}
		s.InFlight++
		return s, []Effect{Remove{ID: ev.ID}}

	case Deleted:
		s.settle()
		// The entry goes away whatever the backend answered.
		if i := s.Index(ev.ID); i >= 0 {
			items := make([]model.Item, 0, len(s.Items)-1)
			items = append(items, s.Items[:i]...)
			s.Items = append(items, s.Items[i+1:]...)
		}
		if s.Edit.TargetID == ev.ID {
			s.Edit = EditSession{}
		}
		if ev.Err != nil {
			s.fail(fmt.Sprintf("unable to delete todo item: %v", ev.Err))
			return s, nil
		}
		return s, s.succeed("item deleted")

	case NoticeExpired:
		if s.Notice.Kind == NoticeSuccess && s.Notice.Seq == ev.Seq {
			s.Notice = Notice{}
		}
		return s, nil
	}
	return s, nil
}

func (s *State) settle() {
	if s.InFlight > 0 {
		s.InFlight--
	}
}

func appendItem(items []model.Item, it model.Item) []model.Item {
	out := make([]model.Item, 0, len(items)+1)
	out = append(out, items...)
	return append(out, it)
}
