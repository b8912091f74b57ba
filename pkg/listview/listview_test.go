package listview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID      int64
	Name    string
	Stock   int
	Created time.Time
}

func (r row) GetID() int64           { return r.ID }
func (r row) SearchText() string     { return r.Name + " " + strconv.FormatInt(r.ID, 10) }
func (r row) CreatedTime() time.Time { return r.Created }

func (r row) DraftFields() map[string]interface{} {
	return map[string]interface{}{"name": r.Name, "stock": r.Stock}
}

type notice struct {
	kind    string
	message string
	success bool
}

type recordingNotifier struct {
	notices []notice
}

func (n *recordingNotifier) Success(message string) {
	n.notices = append(n.notices, notice{message: message, success: true})
}

func (n *recordingNotifier) Error(kind, message string) {
	n.notices = append(n.notices, notice{kind: kind, message: message})
}

func (n *recordingNotifier) errors() []notice {
	var out []notice
	for _, item := range n.notices {
		if !item.success {
			out = append(out, item)
		}
	}
	return out
}

type kindError struct {
	kind string
	msg  string
}

func (e *kindError) Error() string      { return e.msg }
func (e *kindError) NotifyKind() string { return e.kind }

type fakeSource struct {
	rows       []row
	fetchCalls int
	fetchErr   error
	deleteErr  error
	updateErr  error
	submitErr  error
	submitted  map[string]interface{}
}

func (s *fakeSource) FetchAll(ctx context.Context) ([]row, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]row, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *fakeSource) Delete(ctx context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *fakeSource) Update(ctx context.Context, id int64, patch map[string]interface{}) (row, error) {
	if s.updateErr != nil {
		return row{}, s.updateErr
	}
	for _, r := range s.rows {
		if r.ID == id {
			if stock, ok := patch["stock"].(int); ok {
				r.Stock = stock
			}
			return r, nil
		}
	}
	return row{}, errors.New("not found")
}

func (s *fakeSource) Submit(ctx context.Context, id int64, draft map[string]interface{}) (row, error) {
	if s.submitErr != nil {
		return row{}, s.submitErr
	}
	s.submitted = draft
	return row{ID: id}, nil
}

func newFixture(n int) (*fakeSource, *recordingNotifier, *Controller[row]) {
	source := &fakeSource{}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		source.rows = append(source.rows, row{
			ID:      int64(i),
			Name:    fmt.Sprintf("item %d", i),
			Stock:   10,
			Created: base.Add(time.Duration(i) * time.Hour),
		})
	}
	notifier := &recordingNotifier{}
	return source, notifier, New[row](source, notifier)
}

func TestLoadSortsNewestFirst(t *testing.T) {
	_, _, ctl := newFixture(3)
	require.NoError(t, ctl.Load(context.Background()))
	assert.Equal(t, StateReady, ctl.State())

	visible := ctl.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, int64(3), visible[0].ID)
	assert.Equal(t, int64(1), visible[2].ID)
}

func TestSearchMatchesAreSubset(t *testing.T) {
	source, _, ctl := newFixture(0)
	source.rows = []row{
		{ID: 1, Name: "Running shoe"},
		{ID: 2, Name: "Leather boot"},
		{ID: 3, Name: "Trail SHOES"},
		{ID: 4, Name: "Wool sock"},
	}
	require.NoError(t, ctl.Load(context.Background()))

	ctl.Search("shoe")
	for _, r := range ctl.Visible() {
		assert.Contains(t, []int64{1, 3}, r.ID)
	}
	assert.Len(t, ctl.Matches(), 2)

	ctl.Search("leather boot")
	require.Len(t, ctl.Matches(), 1)
	assert.Equal(t, int64(2), ctl.Matches()[0].ID)
}

func TestSearchMatchesByID(t *testing.T) {
	source, _, ctl := newFixture(0)
	source.rows = []row{
		{ID: 424242, Name: "Leather boot"},
		{ID: 7, Name: "Wool sock"},
	}
	require.NoError(t, ctl.Load(context.Background()))

	ctl.Search("424242")
	require.Len(t, ctl.Matches(), 1)
	assert.Equal(t, int64(424242), ctl.Matches()[0].ID)

	ctl.Search("4242")
	require.Len(t, ctl.Matches(), 1)

	// nothing outside name and id matches
	ctl.Search("sockpuppet")
	assert.Empty(t, ctl.Matches())
}

func TestSearchResetsPage(t *testing.T) {
	_, _, ctl := newFixture(30)
	require.NoError(t, ctl.Load(context.Background()))

	ctl.Page(3)
	assert.Equal(t, 3, ctl.CurrentPage())
	ctl.Search("item")
	assert.Equal(t, 1, ctl.CurrentPage())
}

func TestPaginationWindows(t *testing.T) {
	_, _, ctl := newFixture(12)
	require.NoError(t, ctl.Load(context.Background()))
	ctl.SetPerPage(5)

	assert.Equal(t, 3, ctl.Pages())
	assert.Len(t, ctl.Visible(), 5)

	ctl.Page(3)
	assert.Len(t, ctl.Visible(), 2)
}

func TestPageIsClampedAndIdempotent(t *testing.T) {
	_, _, ctl := newFixture(12)
	require.NoError(t, ctl.Load(context.Background()))
	ctl.SetPerPage(5)

	ctl.Page(99)
	assert.Equal(t, 3, ctl.CurrentPage())
	ctl.Page(0)
	assert.Equal(t, 1, ctl.CurrentPage())

	ctl.Page(2)
	first := ctl.Visible()
	second := ctl.Visible()
	assert.Equal(t, first, second)
}

func TestDeleteRemovesFromEveryView(t *testing.T) {
	_, notifier, ctl := newFixture(12)
	require.NoError(t, ctl.Load(context.Background()))
	ctl.SetPerPage(5)

	require.NoError(t, ctl.Delete(context.Background(), 7))

	for _, r := range ctl.Matches() {
		assert.NotEqual(t, int64(7), r.ID)
	}
	for page := 1; page <= ctl.Pages(); page++ {
		ctl.Page(page)
		for _, r := range ctl.Visible() {
			assert.NotEqual(t, int64(7), r.ID)
		}
	}
	assert.Len(t, ctl.Matches(), 11)
	require.Len(t, notifier.notices, 1)
	assert.True(t, notifier.notices[0].success)
}

func TestDeclinedConfirmAbandonsDelete(t *testing.T) {
	source, notifier, ctl := newFixture(5)
	require.NoError(t, ctl.Load(context.Background()))

	var asked int64
	ctl.Confirm = func(id int64) bool {
		asked = id
		return false
	}

	require.NoError(t, ctl.Delete(context.Background(), 3))
	assert.Equal(t, int64(3), asked)
	assert.Len(t, ctl.Matches(), 5)
	assert.Len(t, source.rows, 5)
	assert.Empty(t, notifier.notices)

	ctl.Confirm = func(int64) bool { return true }
	require.NoError(t, ctl.Delete(context.Background(), 3))
	assert.Len(t, ctl.Matches(), 4)
}

func TestInlineUpdateTouchesOnlyTarget(t *testing.T) {
	_, _, ctl := newFixture(5)
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.InlineUpdate(context.Background(), 3, map[string]interface{}{"stock": 42}))

	for _, r := range ctl.Matches() {
		if r.ID == 3 {
			assert.Equal(t, 42, r.Stock)
		} else {
			assert.Equal(t, 10, r.Stock)
		}
	}
}

func TestLoadFailureEmptiesAndNotifiesOnce(t *testing.T) {
	source, notifier, ctl := newFixture(5)
	source.fetchErr = &kindError{kind: "network", msg: "connection refused"}

	err := ctl.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateError, ctl.State())
	assert.Empty(t, ctl.Visible())
	assert.Empty(t, ctl.Matches())
	assert.Zero(t, ctl.Pages())
	require.Len(t, notifier.errors(), 1)
	assert.Equal(t, "network", notifier.errors()[0].kind)
	// no automatic retry
	assert.Equal(t, 1, source.fetchCalls)
}

func TestAuthFailureKeepsCollection(t *testing.T) {
	source, notifier, ctl := newFixture(5)
	require.NoError(t, ctl.Load(context.Background()))

	source.deleteErr = &kindError{kind: "auth", msg: "Login required"}
	err := ctl.Delete(context.Background(), 2)
	require.Error(t, err)

	assert.Len(t, ctl.Matches(), 5)
	require.Len(t, notifier.errors(), 1)
	assert.Equal(t, "auth", notifier.errors()[0].kind)
	assert.Equal(t, StateReady, ctl.State())
}

func TestAuthFailureOnInlineUpdateKeepsCollection(t *testing.T) {
	source, notifier, ctl := newFixture(5)
	require.NoError(t, ctl.Load(context.Background()))

	source.updateErr = &kindError{kind: "auth", msg: "Login required"}
	err := ctl.InlineUpdate(context.Background(), 2, map[string]interface{}{"stock": 99})
	require.Error(t, err)

	assert.Len(t, ctl.Matches(), 5)
	for _, r := range ctl.Matches() {
		assert.Equal(t, 10, r.Stock)
	}
	require.Len(t, notifier.errors(), 1)
	assert.Equal(t, "auth", notifier.errors()[0].kind)
	assert.Equal(t, StateReady, ctl.State())
}

func TestBareErrorDefaultsToBusinessKind(t *testing.T) {
	source, notifier, ctl := newFixture(2)
	require.NoError(t, ctl.Load(context.Background()))

	source.deleteErr = errors.New("boom")
	_ = ctl.Delete(context.Background(), 1)

	require.Len(t, notifier.errors(), 1)
	assert.Equal(t, "business", notifier.errors()[0].kind)
}

func TestWizardMergeAndSubmitReloads(t *testing.T) {
	source, _, ctl := newFixture(3)
	require.NoError(t, ctl.Load(context.Background()))

	w := ctl.EditWizard(2)
	w.Merge(map[string]interface{}{"name": "new name", "original_price": "19.90"})
	w.Merge(map[string]interface{}{"stock": 7})
	assert.Equal(t, 3, w.Step)

	require.NoError(t, ctl.Submit(context.Background(), w))
	assert.Equal(t, "new name", source.submitted["name"])
	// submit reloads the whole collection
	assert.Equal(t, 2, source.fetchCalls)
	assert.Equal(t, StateReady, ctl.State())
}

func TestEditWizardSeedsDraftFromRecord(t *testing.T) {
	source, _, ctl := newFixture(3)
	require.NoError(t, ctl.Load(context.Background()))

	w := ctl.EditWizard(2)
	w.Merge(map[string]interface{}{"stock": 7})
	require.NoError(t, ctl.Submit(context.Background(), w))

	// untouched fields survive a partial-draft submit
	assert.Equal(t, "item 2", source.submitted["name"])
	assert.Equal(t, 7, source.submitted["stock"])
}

func TestEditWizardForNewRecordStartsEmpty(t *testing.T) {
	_, _, ctl := newFixture(3)
	require.NoError(t, ctl.Load(context.Background()))

	assert.Empty(t, ctl.EditWizard(0).Draft())
}

func TestDecodeDraftWeakTyping(t *testing.T) {
	var payload struct {
		Name          string  `mapstructure:"name"`
		OriginalPrice float64 `mapstructure:"original_price"`
		Stock         int     `mapstructure:"stock"`
	}
	draft := map[string]interface{}{
		"name":           "new name",
		"original_price": "19.90",
		"stock":          "7",
	}
	require.NoError(t, DecodeDraft(draft, &payload))
	assert.Equal(t, 19.90, payload.OriginalPrice)
	assert.Equal(t, 7, payload.Stock)
}
