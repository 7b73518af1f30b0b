package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/agalitsyn/todos/internal/model"
)

var (
	overdueColor = color.New(color.FgRed, color.Bold)
	dueSoonColor = color.New(color.FgYellow)
	goodColor    = color.New(color.FgGreen)
	badColor     = color.New(color.FgRed)
	neutralColor = color.New(color.FgBlue)
	faintColor   = color.New(color.Faint)

	priorityColors = map[model.Priority]*color.Color{
		model.PriorityHigh:   color.New(color.FgRed),
		model.PriorityMedium: color.New(color.FgYellow),
		model.PriorityLow:    color.New(color.FgGreen),
	}
)

func render(w io.Writer, todos []model.Todo, now time.Time) {
	if len(todos) == 0 {
		fmt.Fprintln(w, faintColor.Sprint("No todos yet."))
		return
	}
	for _, todo := range todos {
		fmt.Fprintln(w, renderTodo(todo, now))
	}
}

func renderTodo(todo model.Todo, now time.Time) string {
	var b strings.Builder

	mark := "[ ]"
	if todo.Done() {
		mark = "[x]"
	}
	fmt.Fprintf(&b, "#%-4d %s %s", todo.ID, mark, todo.Title)

	if todo.Priority != nil {
		c, ok := priorityColors[*todo.Priority]
		if !ok {
			c = faintColor
		}
		b.WriteString(" " + c.Sprintf("(%s)", todo.Priority.DisplayName()))
	}

	if todo.DueDate != nil {
		due := model.FormatDate(*todo.DueDate)
		switch {
		case todo.IsOverdue(now):
			b.WriteString(" " + overdueColor.Sprintf("Overdue: %s", due))
		case todo.IsDueSoon(now):
			b.WriteString(" " + dueSoonColor.Sprintf("Due soon: %s", due))
		default:
			b.WriteString(" " + faintColor.Sprintf("Due: %s", due))
		}
	}

	if todo.Description != "" {
		b.WriteString("\n      " + faintColor.Sprint(todo.Description))
	}

	if todo.IsCountdown() {
		fmt.Fprintf(&b, "\n      %d / %d  %.1f%% complete, %d remaining",
			todo.Countdown.Done, todo.Countdown.Total, todo.ProgressPercentage(), todo.RemainingCount())

		if pace, ok := todo.Pace(now); ok {
			b.WriteString("\n      " + paceColor(pace.Status).Sprint(pace.Message()))
			if date, ok := todo.EstimatedCompletionDate(now); ok {
				b.WriteString(" " + faintColor.Sprintf("Estimated completion: %s", date))
			}
		}
	}

	return b.String()
}

func paceColor(status model.PaceStatus) *color.Color {
	switch status {
	case model.PaceAhead, model.PaceCompleted:
		return goodColor
	case model.PaceBehind, model.PaceDuePassed:
		return badColor
	default:
		return neutralColor
	}
}
