package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalitsyn/todos/internal/model"
)

var baseTime = time.UnixMilli(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC).UnixMilli())

func newTestStorage(t *testing.T) *TodoStorage {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTodoStorage(db)
}

func regularTodo(title string, createdAt time.Time) *model.Todo {
	return &model.Todo{Title: title, CreatedAt: createdAt}
}

func receive(t *testing.T, ch <-chan []model.Todo) []model.Todo {
	t.Helper()
	select {
	case todos, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return todos
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for todos")
		return nil
	}
}

func TestInsertAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	due := baseTime.Add(48 * time.Hour)
	high := model.PriorityHigh
	todos := []*model.Todo{
		regularTodo("Buy milk", baseTime),
		{
			Title:       "Read book",
			Description: "The long one",
			Completed:   true,
			CreatedAt:   baseTime,
			DueDate:     &due,
			Priority:    &high,
			Countdown:   &model.Countdown{Total: 150, Done: 30},
		},
	}

	for _, todo := range todos {
		want := todo.Clone()

		require.NoError(t, s.InsertTodo(ctx, todo))
		require.NotZero(t, todo.ID)

		got, err := s.GetTodoByID(ctx, todo.ID)
		require.NoError(t, err)

		want.ID = todo.ID
		assert.Equal(t, want, *got)
	}
}

func TestInsertNormalizesTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	created := time.Date(2025, time.March, 10, 12, 0, 0, 123456789, time.UTC)
	due := created.Add(36 * time.Hour)
	todo := &model.Todo{Title: "Read book", CreatedAt: created, DueDate: &due, Countdown: &model.Countdown{Total: 5}}

	require.NoError(t, s.InsertTodo(ctx, todo))
	assert.True(t, todo.CreatedAt.Equal(created.Truncate(time.Millisecond)))

	got, err := s.GetTodoByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, *todo, *got)

	later := due.Add(time.Nanosecond)
	todo.DueDate = &later
	require.NoError(t, s.UpdateTodo(ctx, todo))

	got, err = s.GetTodoByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, *todo, *got)
}

func TestInsertAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	a := regularTodo("a", baseTime)
	b := regularTodo("b", baseTime)
	require.NoError(t, s.InsertTodo(ctx, a))
	require.NoError(t, s.InsertTodo(ctx, b))

	assert.NotEqual(t, a.ID, b.ID)
}

func TestInsertWithExistingIDReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	todo := regularTodo("first", baseTime)
	require.NoError(t, s.InsertTodo(ctx, todo))

	replacement := regularTodo("second", baseTime)
	replacement.ID = todo.ID
	require.NoError(t, s.InsertTodo(ctx, replacement))
	assert.Equal(t, todo.ID, replacement.ID)

	all, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "second", all[0].Title)
}

func TestGetTodoByIDNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetTodoByID(context.Background(), 42)
	assert.ErrorIs(t, err, model.ErrTodoNotFound)
}

func TestListTodosNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for i, title := range []string{"old", "middle", "new"} {
		require.NoError(t, s.InsertTodo(ctx, regularTodo(title, baseTime.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].Title)
	assert.Equal(t, "middle", all[1].Title)
	assert.Equal(t, "old", all[2].Title)
}

func TestUpdateTodo(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	todo := &model.Todo{Title: "Read book", CreatedAt: baseTime, Countdown: &model.Countdown{Total: 10}}
	require.NoError(t, s.InsertTodo(ctx, todo))

	updated := todo.WithProgress(4)
	updated.Title = "Read the book"
	updated.CreatedAt = baseTime.Add(time.Hour)
	require.NoError(t, s.UpdateTodo(ctx, &updated))

	got, err := s.GetTodoByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read the book", got.Title)
	assert.Equal(t, 4, got.Countdown.Done)
	assert.Equal(t, baseTime, got.CreatedAt, "created_at is never rewritten")
}

func TestUpdateAndDeleteAbsentAreNoops(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.InsertTodo(ctx, regularTodo("keep", baseTime)))
	before, err := s.ListTodos(ctx)
	require.NoError(t, err)

	ghost := regularTodo("ghost", baseTime)
	ghost.ID = 999
	require.NoError(t, s.UpdateTodo(ctx, ghost))
	require.NoError(t, s.DeleteTodoByID(ctx, 999))
	require.NoError(t, s.DeleteTodoByID(ctx, 999))
	require.NoError(t, s.DeleteTodo(ctx, ghost))

	after, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteTodo(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	a := regularTodo("a", baseTime)
	b := regularTodo("b", baseTime)
	require.NoError(t, s.InsertTodo(ctx, a))
	require.NoError(t, s.InsertTodo(ctx, b))

	require.NoError(t, s.DeleteTodo(ctx, a))
	require.NoError(t, s.DeleteTodoByID(ctx, b.ID))

	all, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWatchTodos(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newTestStorage(t)

	ch, err := s.WatchTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, receive(t, ch))

	todo := regularTodo("Buy milk", baseTime)
	require.NoError(t, s.InsertTodo(ctx, todo))
	got := receive(t, ch)
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Title)

	done := todo.WithCompleted(true)
	require.NoError(t, s.UpdateTodo(ctx, &done))
	got = receive(t, ch)
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed)

	require.NoError(t, s.DeleteTodoByID(ctx, todo.ID))
	assert.Empty(t, receive(t, ch))
}

func TestWatchTodosSkipsNoopWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newTestStorage(t)

	ch, err := s.WatchTodos(ctx)
	require.NoError(t, err)
	receive(t, ch)

	require.NoError(t, s.DeleteTodoByID(ctx, 7))

	select {
	case todos := <-ch:
		t.Fatalf("unexpected emission: %v", todos)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchTodosKeepsOnlyNewest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newTestStorage(t)

	ch, err := s.WatchTodos(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.InsertTodo(ctx, regularTodo("t", baseTime.Add(time.Duration(i)*time.Minute))))
	}

	assert.Len(t, receive(t, ch), 5)
}

func TestWatchTodosClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestStorage(t)

	ch, err := s.WatchTodos(ctx)
	require.NoError(t, err)
	receive(t, ch)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed")
	}

	// writes after the watcher left must still succeed
	require.NoError(t, s.InsertTodo(context.Background(), regularTodo("after", baseTime)))
}
