package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Todo struct {
	ID          int
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	DueDate     *time.Time
	Priority    *Priority

	// Countdown is nil for regular todos.
	Countdown *Countdown
}

// Countdown tracks progress toward a fixed target. Done stays within [0, Total].
type Countdown struct {
	Total int
	Done  int
}

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrBlankTitle   = fmt.Errorf("%w: title is blank", ErrInvalidInput)
	ErrInvalidTotal = fmt.Errorf("%w: total count must be positive", ErrInvalidInput)
)

func NewTodo(title, description string, createdAt time.Time, dueDate *time.Time, priority *Priority) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, ErrBlankTitle
	}
	if err := ValidatePriority(priority); err != nil {
		return Todo{}, err
	}
	return Todo{
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   TruncateMillis(createdAt),
		DueDate:     TruncateMillisPtr(dueDate),
		Priority:    priority,
	}, nil
}

func NewCountdownTodo(title, description string, total int, createdAt time.Time, dueDate *time.Time, priority *Priority) (Todo, error) {
	if total <= 0 {
		return Todo{}, ErrInvalidTotal
	}
	todo, err := NewTodo(title, description, createdAt, dueDate, priority)
	if err != nil {
		return Todo{}, err
	}
	todo.Countdown = &Countdown{Total: total}
	return todo, nil
}

func (t Todo) IsCountdown() bool {
	return t.Countdown != nil
}

// Clone returns a copy that shares no pointers with t.
func (t Todo) Clone() Todo {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	if t.Countdown != nil {
		cd := *t.Countdown
		c.Countdown = &cd
	}
	return c
}

// WithCompleted returns a copy of t with the completion flag replaced.
func (t Todo) WithCompleted(completed bool) Todo {
	c := t.Clone()
	c.Completed = completed
	return c
}

// WithProgress returns a copy of t with the countdown progress clamped into [0, Total].
// Regular todos are returned unchanged.
func (t Todo) WithProgress(done int) Todo {
	c := t.Clone()
	if c.Countdown == nil {
		return c
	}
	c.Countdown.Done = clamp(done, 0, c.Countdown.Total)
	return c
}

// AdvanceProgress moves countdown progress forward by the given step, saturating at 0 and Total.
// Regular todos are returned unchanged.
func (t Todo) AdvanceProgress(by int) Todo {
	if t.Countdown == nil {
		return t.Clone()
	}
	total := t.Countdown.Total
	done := clamp(t.Countdown.Done, 0, total)
	switch {
	case by >= total-done:
		return t.WithProgress(total)
	case by <= -done:
		return t.WithProgress(0)
	default:
		return t.WithProgress(done + by)
	}
}

// RewindProgress moves countdown progress back by the given step, saturating at 0 and Total.
func (t Todo) RewindProgress(by int) Todo {
	if t.Countdown == nil {
		return t.Clone()
	}
	total := t.Countdown.Total
	done := clamp(t.Countdown.Done, 0, total)
	switch {
	case by >= done:
		return t.WithProgress(0)
	case by <= done-total:
		return t.WithProgress(total)
	default:
		return t.WithProgress(done - by)
	}
}

// CloneTodos deep-copies a list so callers can modify it freely.
func CloneTodos(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	for i, t := range todos {
		out[i] = t.Clone()
	}
	return out
}

// TruncateMillis drops precision below milliseconds, matching what the store keeps.
func TruncateMillis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}

// TruncateMillisPtr is TruncateMillis for optional timestamps.
func TruncateMillisPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := TruncateMillis(*t)
	return &v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type TodoStorage interface {
	ListTodos(ctx context.Context) ([]Todo, error)
	WatchTodos(ctx context.Context) (<-chan []Todo, error)
	GetTodoByID(ctx context.Context, id int) (*Todo, error)
	InsertTodo(ctx context.Context, todo *Todo) error
	UpdateTodo(ctx context.Context, todo *Todo) error
	DeleteTodo(ctx context.Context, todo *Todo) error
	DeleteTodoByID(ctx context.Context, id int) error
}
