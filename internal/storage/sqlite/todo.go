package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/agalitsyn/todos/internal/model"
)

const todoColumns = `id, title, description, is_completed, created_at, is_countdown_type, total_count, completed_count, due_date, priority`

// TodoStorage keeps todos in SQLite and pushes the full list to watchers after every write.
type TodoStorage struct {
	db *sql.DB

	// mu serializes writes with their broadcasts so watchers never see an older list after a newer one.
	mu       sync.Mutex
	watchers map[chan []model.Todo]struct{}
}

func NewTodoStorage(db *sql.DB) *TodoStorage {
	return &TodoStorage{
		db:       db,
		watchers: make(map[chan []model.Todo]struct{}),
	}
}

func (s *TodoStorage) ListTodos(ctx context.Context) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate todos: %w", err)
	}

	return todos, nil
}

func (s *TodoStorage) GetTodoByID(ctx context.Context, id int) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTodoNotFound
		}
		return nil, fmt.Errorf("could not get todo: %w", err)
	}
	return &todo, nil
}

// InsertTodo assigns a new id when todo.ID is zero, otherwise it replaces the row with the same id.
// Timestamps of todo are normalized to millisecond precision in local time.
func (s *TodoStorage) InsertTodo(ctx context.Context, todo *model.Todo) error {
	const query = `
		INSERT OR REPLACE INTO todos (id, title, description, is_completed, created_at, is_countdown_type, total_count, completed_count, due_date, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var id sql.NullInt64
	if todo.ID != 0 {
		id.Int64 = int64(todo.ID)
		id.Valid = true
	}

	normalizeTimes(todo)

	s.mu.Lock()
	defer s.mu.Unlock()

	args := append([]any{id, todo.Title, todo.Description, todo.Completed, todo.CreatedAt.UnixMilli()}, variantArgs(todo)...)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("could not insert todo: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not get last insert id: %w", err)
	}
	todo.ID = int(lastID)

	s.publishLocked(ctx)
	return nil
}

// UpdateTodo replaces every field except created_at. Unknown ids are ignored.
func (s *TodoStorage) UpdateTodo(ctx context.Context, todo *model.Todo) error {
	const query = `
		UPDATE todos
		SET title = ?, description = ?, is_completed = ?, is_countdown_type = ?, total_count = ?, completed_count = ?, due_date = ?, priority = ?
		WHERE id = ?
	`

	normalizeTimes(todo)

	s.mu.Lock()
	defer s.mu.Unlock()

	args := append([]any{todo.Title, todo.Description, todo.Completed}, variantArgs(todo)...)
	args = append(args, todo.ID)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("could not update todo: %w", err)
	}

	return s.publishIfChanged(ctx, result)
}

func (s *TodoStorage) DeleteTodo(ctx context.Context, todo *model.Todo) error {
	return s.DeleteTodoByID(ctx, todo.ID)
}

// DeleteTodoByID is idempotent: removing an absent id is not an error.
func (s *TodoStorage) DeleteTodoByID(ctx context.Context, id int) error {
	const query = `DELETE FROM todos WHERE id = ?`

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not delete todo: %w", err)
	}

	return s.publishIfChanged(ctx, result)
}

// WatchTodos delivers the current list right away and a fresh full list after every write.
// A watcher that falls behind only receives the newest list. The channel is closed once ctx is done.
func (s *TodoStorage) WatchTodos(ctx context.Context) (<-chan []model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.ListTodos(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []model.Todo, 1)
	ch <- todos
	s.watchers[ch] = struct{}{}
	log.Printf("DEBUG todos watcher added, total=%d", len(s.watchers))

	go func() {
		<-ctx.Done()

		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, ch)
		close(ch)
		log.Printf("DEBUG todos watcher removed, total=%d", len(s.watchers))
	}()

	return ch, nil
}

func (s *TodoStorage) publishIfChanged(ctx context.Context, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if n > 0 {
		s.publishLocked(ctx)
	}
	return nil
}

// publishLocked must be called with s.mu held. The write has already been committed,
// so a failed refresh is logged rather than reported as a failed write.
func (s *TodoStorage) publishLocked(ctx context.Context) {
	if len(s.watchers) == 0 {
		return
	}

	todos, err := s.ListTodos(context.WithoutCancel(ctx))
	if err != nil {
		log.Printf("ERROR could not refresh todos for watchers: %s", err)
		return
	}

	for ch := range s.watchers {
		// only this method sends, under s.mu, so after draining the send never blocks
		select {
		case <-ch:
		default:
		}
		ch <- model.CloneTodos(todos)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (model.Todo, error) {
	var (
		todo        model.Todo
		createdAt   int64
		isCountdown bool
		total       int
		done        int
		dueDate     sql.NullInt64
		priority    sql.NullString
	)

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&createdAt,
		&isCountdown,
		&total,
		&done,
		&dueDate,
		&priority,
	)
	if err != nil {
		return model.Todo{}, err
	}

	todo.CreatedAt = time.UnixMilli(createdAt)

	if isCountdown {
		todo.Countdown = &model.Countdown{Total: total, Done: done}
	}

	if dueDate.Valid {
		due := time.UnixMilli(dueDate.Int64)
		todo.DueDate = &due
	}

	if priority.Valid {
		p := model.Priority(priority.String)
		todo.Priority = &p
	}

	return todo, nil
}

// variantArgs flattens the countdown variant and optional fields into
// is_countdown_type, total_count, completed_count, due_date, priority.
func variantArgs(todo *model.Todo) []any {
	var (
		isCountdown bool
		total       int
		done        int
	)
	if todo.Countdown != nil {
		isCountdown = true
		total = todo.Countdown.Total
		done = todo.Countdown.Done
	}

	var dueDate sql.NullInt64
	if todo.DueDate != nil {
		dueDate.Int64 = todo.DueDate.UnixMilli()
		dueDate.Valid = true
	}

	var priority sql.NullString
	if todo.Priority != nil {
		priority.String = string(*todo.Priority)
		priority.Valid = true
	}

	return []any{isCountdown, total, done, dueDate, priority}
}

// normalizeTimes drops sub-millisecond precision and the zone, so the caller's todo
// compares equal to what is read back.
func normalizeTimes(todo *model.Todo) {
	todo.CreatedAt = model.TruncateMillis(todo.CreatedAt)
	todo.DueDate = model.TruncateMillisPtr(todo.DueDate)
}
