package models

import "fmt"

// Task identifies one of the dispatcher's suggestion operations.
type Task string

const (
	TaskEventIdeas Task = "event_ideas"
	TaskVenues     Task = "venues"
	TaskQueryParse Task = "query_parse"
	TaskMoodBoard  Task = "mood_board"
	TaskBudget     Task = "budget"
)

// Tasks lists every task in a stable order.
func Tasks() []Task {
	return []Task{TaskEventIdeas, TaskVenues, TaskQueryParse, TaskMoodBoard, TaskBudget}
}

// ParseTask accepts the canonical task name or its short CLI alias.
func ParseTask(s string) (Task, error) {
	switch s {
	case string(TaskEventIdeas), "ideas":
		return TaskEventIdeas, nil
	case string(TaskVenues):
		return TaskVenues, nil
	case string(TaskQueryParse), "query":
		return TaskQueryParse, nil
	case string(TaskMoodBoard), "moodboard":
		return TaskMoodBoard, nil
	case string(TaskBudget):
		return TaskBudget, nil
	default:
		return "", fmt.Errorf("unknown task %q", s)
	}
}
