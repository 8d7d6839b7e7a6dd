package todo

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/todo/internal/model"
)

// API is the remote collection the controller synchronizes with.
type API interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, title, description string) (model.Item, error)
	Update(ctx context.Context, id, title, description string) error
	Delete(ctx context.Context, id string) error
}

// Confirmer answers a yes/no question before a destructive action.
type Confirmer func(ctx context.Context, prompt string) bool

// Exec runs a network effect against api and returns the resulting event.
// ok is false for effects the driver has to handle itself (Confirm,
// ExpireNotice).
func Exec(ctx context.Context, api API, eff Effect) (ev Event, ok bool) {
	switch e := eff.(type) {
	case FetchAll:
		items, err := api.List(ctx)
		return Loaded{Items: items, Err: err}, true
	case Create:
		it, err := api.Create(ctx, e.Title, e.Description)
		return Created{Draft: Draft{Title: e.Title, Description: e.Description}, Item: it, Err: err}, true
	case Update:
		err := api.Update(ctx, e.ID, e.Title, e.Description)
		return Updated{ID: e.ID, Title: e.Title, Description: e.Description, Err: err}, true
	case Remove:
		return Deleted{ID: e.ID, Err: api.Delete(ctx, e.ID)}, true
	}
	return nil, false
}

// Controller drives Reduce synchronously: every operation returns once all
// the effects it triggered have completed. Notice expiry is not scheduled;
// callers read the notice right after the operation.
type Controller struct {
	api     API
	confirm Confirmer
	log     zerolog.Logger
	state   State
}

func NewController(api API, confirm Confirmer, log zerolog.Logger) *Controller {
	if confirm == nil {
		confirm = func(context.Context, string) bool { return false }
	}
	return &Controller{api: api, confirm: confirm, log: log}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State { return c.state }

func (c *Controller) Load(ctx context.Context)              { c.dispatch(ctx, Load{}) }
func (c *Controller) Submit(ctx context.Context, d Draft)   { c.dispatch(ctx, Submit{Draft: d}) }
func (c *Controller) BeginEdit(it model.Item)               { c.dispatch(context.Background(), BeginEdit{Item: it}) }
func (c *Controller) CancelEdit()                           { c.dispatch(context.Background(), CancelEdit{}) }
func (c *Controller) Delete(ctx context.Context, id string) { c.dispatch(ctx, Delete{ID: id}) }
func (c *Controller) SetEdit(title, description string)     { c.dispatch(context.Background(), EditInput{title, description}) }
func (c *Controller) SaveEdit(ctx context.Context)          { c.dispatch(ctx, SaveEdit{}) }

func (c *Controller) dispatch(ctx context.Context, ev Event) {
	queue := []Event{ev}
	for len(queue) > 0 {
		ev, queue = queue[0], queue[1:]

		var effects []Effect
		c.state, effects = Reduce(c.state, ev)
		for _, eff := range effects {
			switch e := eff.(type) {
			case Confirm:
				queue = append(queue, DeleteConfirmed{ID: e.ID, OK: c.confirm(ctx, e.Prompt)})
			case ExpireNotice:
			default:
				next, ok := Exec(ctx, c.api, eff)
				if !ok {
					c.log.Warn().Type("effect", eff).Msg("unhandled effect")
					continue
				}
				queue = append(queue, next)
			}
		}
	}
	if msg := c.state.Notice.Error(); msg != "" {
		c.log.Info().Str("notice", msg).Msg("operation failed")
	}
}
