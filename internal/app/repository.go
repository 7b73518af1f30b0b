package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/agalitsyn/todos/internal/model"
)

type Clock func() time.Time

// TodoRepository adds variant-aware operations on top of a TodoStorage.
// Concurrent calls are not coordinated here: the last write wins in storage,
// and progress is clamped on every change.
type TodoRepository struct {
	storage model.TodoStorage
	now     Clock
}

func NewTodoRepository(storage model.TodoStorage, now Clock) *TodoRepository {
	if now == nil {
		now = time.Now
	}
	return &TodoRepository{storage: storage, now: now}
}

func (r *TodoRepository) Now() time.Time {
	return r.now()
}

func (r *TodoRepository) ListTodos(ctx context.Context) ([]model.Todo, error) {
	return r.storage.ListTodos(ctx)
}

func (r *TodoRepository) WatchTodos(ctx context.Context) (<-chan []model.Todo, error) {
	return r.storage.WatchTodos(ctx)
}

func (r *TodoRepository) GetTodoByID(ctx context.Context, id int) (*model.Todo, error) {
	return r.storage.GetTodoByID(ctx, id)
}

func (r *TodoRepository) AddTodo(ctx context.Context, title, description string, dueDate *time.Time, priority *model.Priority) (model.Todo, error) {
	todo, err := model.NewTodo(title, description, r.now(), dueDate, priority)
	if err != nil {
		return model.Todo{}, err
	}
	return r.insert(ctx, todo)
}

func (r *TodoRepository) AddCountdownTodo(ctx context.Context, title, description string, total int, dueDate *time.Time, priority *model.Priority) (model.Todo, error) {
	todo, err := model.NewCountdownTodo(title, description, total, r.now(), dueDate, priority)
	if err != nil {
		return model.Todo{}, err
	}
	return r.insert(ctx, todo)
}

func (r *TodoRepository) insert(ctx context.Context, todo model.Todo) (model.Todo, error) {
	if err := r.storage.InsertTodo(ctx, &todo); err != nil {
		return model.Todo{}, fmt.Errorf("could not add todo: %w", err)
	}
	log.Printf("DEBUG added todo id=%d countdown=%t", todo.ID, todo.IsCountdown())
	return todo, nil
}

func (r *TodoRepository) UpdateTodo(ctx context.Context, todo model.Todo) error {
	if err := model.ValidatePriority(todo.Priority); err != nil {
		return err
	}
	return r.storage.UpdateTodo(ctx, &todo)
}

func (r *TodoRepository) DeleteTodo(ctx context.Context, todo model.Todo) error {
	return r.storage.DeleteTodo(ctx, &todo)
}

func (r *TodoRepository) DeleteTodoByID(ctx context.Context, id int) error {
	return r.storage.DeleteTodoByID(ctx, id)
}

// ToggleTodoComplete flips the stored flag for both variants.
func (r *TodoRepository) ToggleTodoComplete(ctx context.Context, todo model.Todo) error {
	return r.UpdateTodo(ctx, todo.WithCompleted(!todo.Completed))
}

func (r *TodoRepository) IncrementCountdownProgress(ctx context.Context, todo model.Todo, by int) error {
	if !todo.IsCountdown() {
		return nil
	}
	return r.UpdateTodo(ctx, todo.AdvanceProgress(by))
}

func (r *TodoRepository) DecrementCountdownProgress(ctx context.Context, todo model.Todo, by int) error {
	if !todo.IsCountdown() {
		return nil
	}
	return r.UpdateTodo(ctx, todo.RewindProgress(by))
}

func (r *TodoRepository) SetCountdownProgress(ctx context.Context, todo model.Todo, done int) error {
	if !todo.IsCountdown() {
		return nil
	}
	return r.UpdateTodo(ctx, todo.WithProgress(done))
}
