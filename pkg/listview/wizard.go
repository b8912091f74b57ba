package listview

import (
	"context"

	"github.com/mitchellh/mapstructure"
)

// Wizard accumulates a multi-step edit form for one record. Each step
// merges its fields into the draft; nothing is sent until Submit.
type Wizard struct {
	ID    int64
	Step  int
	draft map[string]interface{}
}

// Drafter is implemented by resources that can seed an edit wizard with
// their current field values.
type Drafter interface {
	DraftFields() map[string]interface{}
}

// EditWizard opens a draft for the record with the given id; id 0 means a
// new record. When the record is loaded and implements Drafter, the draft
// starts as a copy of its current fields, so steps that only touch some
// fields resubmit the rest unchanged.
func (ctl *Controller[T]) EditWizard(id int64) *Wizard {
	draft := map[string]interface{}{}
	if id != 0 {
		for _, item := range ctl.items {
			if item.GetID() != id {
				continue
			}
			if d, ok := any(item).(Drafter); ok {
				for k, v := range d.DraftFields() {
					draft[k] = v
				}
			}
			break
		}
	}
	return &Wizard{ID: id, Step: 1, draft: draft}
}

// Set records one field on the draft.
func (w *Wizard) Set(field string, value interface{}) {
	w.draft[field] = value
}

// Merge folds a whole step's fields into the draft and advances the step.
func (w *Wizard) Merge(fields map[string]interface{}) {
	for k, v := range fields {
		w.draft[k] = v
	}
	w.Step++
}

// Draft returns a copy of the accumulated fields.
func (w *Wizard) Draft() map[string]interface{} {
	out := make(map[string]interface{}, len(w.draft))
	for k, v := range w.draft {
		out[k] = v
	}
	return out
}

// DecodeDraft maps a draft onto a typed payload. Weak typing lets string
// form values fill numeric fields.
func DecodeDraft(draft map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(draft)
}

// Submit sends the draft to the source and then reloads the whole
// collection; the reload keeps local state authoritative after a
// server-side write touched derived fields.
func (ctl *Controller[T]) Submit(ctx context.Context, w *Wizard) error {
	ctl.state = StateMutating
	if _, err := ctl.source.Submit(ctx, w.ID, w.Draft()); err != nil {
		ctl.state = StateReady
		ctl.notifyError(err)
		return err
	}
	ctl.notifier.Success("Saved")
	return ctl.Load(ctx)
}
