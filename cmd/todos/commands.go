package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agalitsyn/todos/internal/app"
	"github.com/agalitsyn/todos/internal/model"
)

const dueDateLayout = "2006-01-02"

var errUsage = errors.New("usage error, see -help")

func run(ctx context.Context, repo *app.TodoRepository, command string, args []string) error {
	switch command {
	case "list":
		todos, err := repo.ListTodos(ctx)
		if err != nil {
			return err
		}
		render(os.Stdout, todos, repo.Now())
		return nil
	case "watch":
		return watch(ctx, app.NewSession(repo), os.Stdout)
	case "add", "countdown":
		return add(ctx, repo, command == "countdown", args)
	case "toggle":
		todo, err := todoArg(ctx, repo, args, 1)
		if err != nil {
			return err
		}
		return repo.ToggleTodoComplete(ctx, todo)
	case "inc", "dec":
		fs := flag.NewFlagSet(command, flag.ContinueOnError)
		by := fs.Int("by", 1, "Step.")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		todo, err := todoArg(ctx, repo, fs.Args(), 1)
		if err != nil {
			return err
		}
		if command == "inc" {
			return repo.IncrementCountdownProgress(ctx, todo, *by)
		}
		return repo.DecrementCountdownProgress(ctx, todo, *by)
	case "set":
		todo, err := todoArg(ctx, repo, args, 2)
		if err != nil {
			return err
		}
		count, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: count %q", model.ErrInvalidInput, args[1])
		}
		return repo.SetCountdownProgress(ctx, todo, count)
	case "rm":
		if len(args) != 1 {
			return errUsage
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: id %q", model.ErrInvalidInput, args[0])
		}
		return repo.DeleteTodoByID(ctx, id)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func add(ctx context.Context, repo *app.TodoRepository, countdown bool, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	dueStr := fs.String("due", "", "Due date, YYYY-MM-DD.")
	priorityStr := fs.String("priority", "", "Priority (low | medium | high).")
	description := fs.String("description", "", "Description.")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var dueDate *time.Time
	if *dueStr != "" {
		due, err := time.ParseInLocation(dueDateLayout, *dueStr, time.Local)
		if err != nil {
			return fmt.Errorf("%w: due date must be YYYY-MM-DD", model.ErrInvalidInput)
		}
		// due at the end of the given day
		due = due.Add(model.Day - time.Millisecond)
		dueDate = &due
	}

	priority, err := model.ParsePriority(*priorityStr)
	if err != nil {
		return err
	}

	rest := fs.Args()
	var todo model.Todo
	if countdown {
		if len(rest) < 2 {
			return errUsage
		}
		total, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("%w: total %q", model.ErrInvalidInput, rest[0])
		}
		todo, err = repo.AddCountdownTodo(ctx, strings.Join(rest[1:], " "), *description, total, dueDate, priority)
		if err != nil {
			return err
		}
	} else {
		todo, err = repo.AddTodo(ctx, strings.Join(rest, " "), *description, dueDate, priority)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "added #%d\n", todo.ID)
	return nil
}

func todoArg(ctx context.Context, repo *app.TodoRepository, args []string, want int) (model.Todo, error) {
	if len(args) != want {
		return model.Todo{}, errUsage
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return model.Todo{}, fmt.Errorf("%w: id %q", model.ErrInvalidInput, args[0])
	}
	todo, err := repo.GetTodoByID(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}
	return *todo, nil
}

func watch(ctx context.Context, session *app.Session, w io.Writer) error {
	if err := session.Start(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-session.Changed():
			if session.Loading() {
				fmt.Fprintln(w, "loading...")
				continue
			}
			fmt.Fprint(w, "\033[H\033[2J")
			render(w, session.Todos(), session.Now())
		case <-session.Done():
			return nil
		}
	}
}
