package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/agalitsyn/todos/internal/model"
)

func init() {
	color.NoColor = true
}

var renderNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestRenderTodo(t *testing.T) {
	high := model.PriorityHigh
	overdue := renderNow.Add(-time.Hour)
	soon := renderNow.Add(2 * time.Hour)
	due := renderNow.Add(5 * model.Day)

	tests := []struct {
		name string
		todo model.Todo
		want []string
	}{
		{
			name: "overdue regular",
			todo: model.Todo{ID: 3, Title: "Pay rent", DueDate: &overdue, Priority: &high},
			want: []string{"#3", "[ ] Pay rent", "(High)", "Overdue: Mar 10, 2025"},
		},
		{
			name: "due soon",
			todo: model.Todo{ID: 4, Title: "Call mom", DueDate: &soon},
			want: []string{"Due soon: Mar 10, 2025"},
		},
		{
			name: "countdown behind schedule",
			todo: model.Todo{
				ID:        5,
				Title:     "Read book",
				CreatedAt: renderNow.Add(-10 * model.Day),
				DueDate:   &due,
				Countdown: &model.Countdown{Total: 100, Done: 40},
			},
			want: []string{"40 / 100", "40.0% complete, 60 remaining", "Behind schedule by 80 items", "Estimated completion: Mar 25, 2025"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderTodo(tt.todo, renderNow)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	render(&buf, nil, renderNow)
	assert.Equal(t, "No todos yet.\n", buf.String())
}
