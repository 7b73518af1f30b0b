package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/agalitsyn/todos/internal/model"
)

// Session keeps a live snapshot of all todos for a presentation layer and forwards its mutations.
type Session struct {
	repo *TodoRepository

	mu      sync.RWMutex
	todos   []model.Todo
	loading bool

	changed chan struct{}
	done    chan struct{}
}

func NewSession(repo *TodoRepository) *Session {
	return &Session{
		repo:    repo,
		todos:   []model.Todo{},
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start subscribes to the todo list and returns once the subscription exists. Call it once.
// Snapshots keep arriving until ctx is done; Done is closed after that.
func (s *Session) Start(ctx context.Context) error {
	s.setLoading(true)

	updates, err := s.repo.WatchTodos(ctx)
	if err != nil {
		s.setLoading(false)
		close(s.done)
		return err
	}

	go func() {
		defer close(s.done)
		for todos := range updates {
			s.mu.Lock()
			s.todos = todos
			s.loading = false
			s.mu.Unlock()
			s.notify()
		}
		log.Printf("DEBUG session stopped: %s", ctx.Err())
	}()
	return nil
}

// Todos returns a copy of the latest snapshot, newest first.
func (s *Session) Todos() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneTodos(s.todos)
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Changed is signalled after the snapshot or the loading flag changes. Signals coalesce.
func (s *Session) Changed() <-chan struct{} {
	return s.changed
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Now() time.Time {
	return s.repo.Now()
}

func (s *Session) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Session) AddTodo(ctx context.Context, title, description string, dueDate *time.Time, priority *model.Priority) (model.Todo, error) {
	return s.repo.AddTodo(ctx, title, description, dueDate, priority)
}

func (s *Session) AddCountdownTodo(ctx context.Context, title, description string, total int, dueDate *time.Time, priority *model.Priority) (model.Todo, error) {
	return s.repo.AddCountdownTodo(ctx, title, description, total, dueDate, priority)
}

func (s *Session) UpdateTodo(ctx context.Context, todo model.Todo) error {
	return s.repo.UpdateTodo(ctx, todo)
}

func (s *Session) DeleteTodo(ctx context.Context, todo model.Todo) error {
	return s.repo.DeleteTodo(ctx, todo)
}

func (s *Session) DeleteTodoByID(ctx context.Context, id int) error {
	return s.repo.DeleteTodoByID(ctx, id)
}

func (s *Session) ToggleTodoComplete(ctx context.Context, todo model.Todo) error {
	return s.repo.ToggleTodoComplete(ctx, todo)
}

func (s *Session) IncrementCountdownProgress(ctx context.Context, todo model.Todo, by int) error {
	return s.repo.IncrementCountdownProgress(ctx, todo, by)
}

func (s *Session) DecrementCountdownProgress(ctx context.Context, todo model.Todo, by int) error {
	return s.repo.DecrementCountdownProgress(ctx, todo, by)
}

func (s *Session) SetCountdownProgress(ctx context.Context, todo model.Todo, done int) error {
	return s.repo.SetCountdownProgress(ctx, todo, done)
}
