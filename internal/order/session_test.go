package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lunch-tray/internal/events"
	"github.com/noah-isme/lunch-tray/internal/menu"
	"github.com/noah-isme/lunch-tray/internal/order"
)

type recordedSelection struct {
	category string
	result   string
}

type fakeRecorder struct {
	selections  []recordedSelection
	completions []string
}

func (f *fakeRecorder) ObserveSelection(category, result string) {
	f.selections = append(f.selections, recordedSelection{category, result})
}

func (f *fakeRecorder) ObserveCompletion(outcome string, _ int64) {
	f.completions = append(f.completions, outcome)
}

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, string, uuid.UUID, any) (events.Event, error) {
	return events.Event{}, errors.New("store down")
}

func sequentialIDs() func() uuid.UUID {
	ids := []uuid.UUID{
		uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		uuid.MustParse("33333333-3333-3333-3333-333333333333"),
	}
	i := 0
	return func() uuid.UUID {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func newSession(t *testing.T, emitter order.Emitter, rec order.Recorder) *order.Session {
	t.Helper()
	session, err := order.NewSession(order.SessionConfig{
		State:   newState(t),
		Events:  emitter,
		Metrics: rec,
		NewID:   sequentialIDs(),
	})
	require.NoError(t, err)
	return session
}

func TestSessionSubmitPublishesAndResets(t *testing.T) {
	store := events.NewMemoryStore(0)
	rec := &fakeRecorder{}
	session := newSession(t, &events.Bus{Store: store}, rec)

	_, err := session.Select(menu.CategoryEntree, "bowl")
	require.NoError(t, err)
	view, err := session.Select(menu.CategorySide, "fries")
	require.NoError(t, err)
	require.EqualValues(t, 756, view.Total)

	submitted, next, err := session.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "11111111-1111-1111-1111-111111111111", submitted.OrderID.String())
	require.EqualValues(t, 756, submitted.Total)

	require.Equal(t, "22222222-2222-2222-2222-222222222222", next.OrderID.String())
	require.Zero(t, next.Total)
	require.Nil(t, next.Entree)
	require.Equal(t, next, session.Current())

	stored := store.Events()
	require.Len(t, stored, 1)
	require.Equal(t, events.TopicOrderSubmitted, stored[0].Topic)
	require.Equal(t, submitted.OrderID, stored[0].AggregateID)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(stored[0].Payload, &payload))
	require.EqualValues(t, 700, payload["subtotal"])
	require.EqualValues(t, 756, payload["total"])

	require.Equal(t, []string{"submitted"}, rec.completions)
	require.Len(t, rec.selections, 2)
}

func TestSessionSubmitEmptyOrder(t *testing.T) {
	session := newSession(t, nil, nil)
	_, _, err := session.Submit(context.Background())
	require.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestSessionCancelResetsEvenWhenEmpty(t *testing.T) {
	store := events.NewMemoryStore(0)
	session := newSession(t, &events.Bus{Store: store}, nil)
	_, err := session.Select(menu.CategoryAccompaniment, "roll")
	require.NoError(t, err)

	canceled, next, err := session.Cancel(context.Background())
	require.NoError(t, err)
	require.NotNil(t, canceled.Accompaniment)
	require.Nil(t, next.Accompaniment)
	require.NotEqual(t, canceled.OrderID, next.OrderID)
	require.Equal(t, next, session.Current())

	_, _, err = session.Cancel(context.Background())
	require.NoError(t, err)
	require.Len(t, store.Events(), 2)
}

func TestSessionPublishFailureKeepsOrder(t *testing.T) {
	session := newSession(t, failingEmitter{}, nil)
	_, err := session.Select(menu.CategoryEntree, "curry")
	require.NoError(t, err)

	_, _, err = session.Submit(context.Background())
	require.ErrorContains(t, err, "store down")
	current := session.Current()
	require.NotNil(t, current.Entree)
	require.Equal(t, "11111111-1111-1111-1111-111111111111", current.OrderID.String())
}

func TestSessionSubmitReturnsNextUnderOneLock(t *testing.T) {
	session, err := order.NewSession(order.SessionConfig{
		State:  newState(t),
		Events: &events.Bus{Store: events.NewMemoryStore(0)},
	})
	require.NoError(t, err)
	const workers = 8

	var wg sync.WaitGroup
	nexts := make(chan order.View, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := session.Select(menu.CategoryEntree, "bowl"); err != nil {
				return
			}
			_, next, err := session.Submit(context.Background())
			if err == nil {
				nexts <- next
			}
		}()
	}
	wg.Wait()
	close(nexts)

	seen := map[string]bool{}
	for next := range nexts {
		require.Nil(t, next.Entree)
		require.Zero(t, next.Total)
		require.False(t, seen[next.OrderID.String()], "next order ids repeat")
		seen[next.OrderID.String()] = true
	}
	require.NotEmpty(t, seen)
}

func TestSessionSelectionMetrics(t *testing.T) {
	rec := &fakeRecorder{}
	session := newSession(t, nil, rec)
	_, err := session.Select(menu.CategorySide, "lobster")
	require.ErrorIs(t, err, order.ErrUnknownItem)
	_, err = session.Select("dessert", "cake")
	require.ErrorIs(t, err, order.ErrUnknownCategory)
	require.Equal(t, []recordedSelection{
		{"side", "unknown_item"},
		{"dessert", "unknown_category"},
	}, rec.selections)
}

func TestSessionWatch(t *testing.T) {
	session := newSession(t, &events.Bus{Store: events.NewMemoryStore(0)}, nil)
	var totals []int64
	var ids []string
	cancel := session.Watch(func(v order.View) {
		totals = append(totals, v.Total)
		ids = append(ids, v.OrderID.String()[:1])
	})

	_, err := session.Select(menu.CategoryEntree, "bowl")
	require.NoError(t, err)
	session.Recompute()
	_, _, err = session.Submit(context.Background())
	require.NoError(t, err)
	cancel()
	cancel()
	_, err = session.Select(menu.CategoryEntree, "curry")
	require.NoError(t, err)

	require.Equal(t, []int64{0, 540, 540, 0}, totals)
	require.Equal(t, []string{"1", "1", "1", "2"}, ids)
}

func TestNewSessionRequiresState(t *testing.T) {
	_, err := order.NewSession(order.SessionConfig{})
	require.Error(t, err)
}
