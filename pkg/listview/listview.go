// Package listview implements the dashboard collection pattern: load a
// collection once, then search, filter and paginate it locally; mutations
// go to the source and the local copy is patched on success. The
// controller is presentation-agnostic, it reports outcomes through a
// Notifier and exposes pure views over its state.
package listview

import (
	"context"
	"sort"
	"strings"
	"time"
)

// State is the controller lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateMutating
	StateError
)

// Resource is the minimal shape a listed record must expose.
type Resource interface {
	GetID() int64
	SearchText() string
	CreatedTime() time.Time
}

// Notifier receives user-facing outcomes. Error kinds are "network",
// "auth", "validation", "decode" and "business".
type Notifier interface {
	Success(message string)
	Error(kind, message string)
}

// Source is the remote side of a collection.
type Source[T Resource] interface {
	FetchAll(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, patch map[string]interface{}) (T, error)
	Submit(ctx context.Context, id int64, draft map[string]interface{}) (T, error)
}

// kinder is implemented by errors that carry a notification kind.
type kinder interface {
	NotifyKind() string
}

const defaultPerPage = 10

// Controller owns one listed collection. It is not safe for concurrent
// use; drive it from a single goroutine the way a UI event loop would.
type Controller[T Resource] struct {
	source   Source[T]
	notifier Notifier

	// Confirm, when set, is asked before a delete is sent; returning
	// false abandons the delete without touching source or collection.
	Confirm func(id int64) bool

	state   State
	items   []T
	query   string
	filter  func(T) bool
	page    int
	perPage int
}

// New returns an idle controller over the given source.
func New[T Resource](source Source[T], notifier Notifier) *Controller[T] {
	return &Controller[T]{
		source:   source,
		notifier: notifier,
		state:    StateIdle,
		page:     1,
		perPage:  defaultPerPage,
	}
}

func (ctl *Controller[T]) State() State { return ctl.state }

// notifyError reports exactly one notification per failed operation.
func (ctl *Controller[T]) notifyError(err error) {
	kind := "business"
	if k, ok := err.(kinder); ok {
		kind = k.NotifyKind()
	}
	ctl.notifier.Error(kind, err.Error())
}

// Load fetches the whole collection and sorts it newest first. On failure
// the collection empties, the state is StateError and exactly one error
// notification fires; there is no automatic retry.
func (ctl *Controller[T]) Load(ctx context.Context) error {
	ctl.state = StateLoading
	items, err := ctl.source.FetchAll(ctx)
	if err != nil {
		ctl.items = nil
		ctl.state = StateError
		ctl.notifyError(err)
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].CreatedTime(), items[j].CreatedTime()
		if ti.Equal(tj) {
			return items[i].GetID() > items[j].GetID()
		}
		return ti.After(tj)
	})
	ctl.items = items
	ctl.state = StateReady
	return nil
}

// Search sets the live search term and rewinds to the first page. A
// matching record contains the term case-insensitively in its SearchText.
func (ctl *Controller[T]) Search(term string) {
	ctl.query = strings.TrimSpace(term)
	ctl.page = 1
}

// Filter installs an extra predicate over the collection and rewinds to
// the first page; nil clears it.
func (ctl *Controller[T]) Filter(pred func(T) bool) {
	ctl.filter = pred
	ctl.page = 1
}

// matched applies search and filter in collection order.
func (ctl *Controller[T]) matched() []T {
	needle := strings.ToLower(ctl.query)
	out := make([]T, 0, len(ctl.items))
	for _, item := range ctl.items {
		if needle != "" && !strings.Contains(strings.ToLower(item.SearchText()), needle) {
			continue
		}
		if ctl.filter != nil && !ctl.filter(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Matches returns every record passing the current search and filter.
func (ctl *Controller[T]) Matches() []T { return ctl.matched() }

// Pages returns the number of pages for the current match set; an empty
// match set has zero pages.
func (ctl *Controller[T]) Pages() int {
	return (len(ctl.matched()) + ctl.perPage - 1) / ctl.perPage
}

// Page moves to page n, clamped into [1, Pages()].
func (ctl *Controller[T]) Page(n int) {
	if n < 1 {
		n = 1
	}
	if max := ctl.Pages(); max > 0 && n > max {
		n = max
	}
	ctl.page = n
}

// CurrentPage returns the active page number.
func (ctl *Controller[T]) CurrentPage() int { return ctl.page }

// SetPerPage changes the window size and rewinds to the first page.
func (ctl *Controller[T]) SetPerPage(n int) {
	if n < 1 {
		n = defaultPerPage
	}
	ctl.perPage = n
	ctl.page = 1
}

// Visible returns the current page's window over the match set. It is a
// pure view: calling it repeatedly returns the same slice content.
func (ctl *Controller[T]) Visible() []T {
	matched := ctl.matched()
	start := (ctl.page - 1) * ctl.perPage
	if start >= len(matched) {
		return nil
	}
	end := start + ctl.perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end]
}

// Delete removes one record remotely, then splices it out of the local
// collection so every view drops it without a reload. A declined Confirm
// abandons the delete silently.
func (ctl *Controller[T]) Delete(ctx context.Context, id int64) error {
	if ctl.Confirm != nil && !ctl.Confirm(id) {
		return nil
	}
	ctl.state = StateMutating
	if err := ctl.source.Delete(ctx, id); err != nil {
		ctl.state = StateReady
		ctl.notifyError(err)
		return err
	}
	for i, item := range ctl.items {
		if item.GetID() == id {
			ctl.items = append(ctl.items[:i], ctl.items[i+1:]...)
			break
		}
	}
	ctl.state = StateReady
	ctl.notifier.Success("Deleted")
	return nil
}

// InlineUpdate patches one record remotely and merges the returned row
// over the local copy; no other record changes.
func (ctl *Controller[T]) InlineUpdate(ctx context.Context, id int64, patch map[string]interface{}) error {
	ctl.state = StateMutating
	updated, err := ctl.source.Update(ctx, id, patch)
	if err != nil {
		ctl.state = StateReady
		ctl.notifyError(err)
		return err
	}
	for i, item := range ctl.items {
		if item.GetID() == id {
			ctl.items[i] = updated
			break
		}
	}
	ctl.state = StateReady
	ctl.notifier.Success("Updated")
	return nil
}
