package models

import "strings"

// TaskStatus is the work state of a task.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "ToDo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
)

// AllStatuses lists every known status in column order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusToDo, TaskStatusInProgress, TaskStatusDone}
}

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus maps user input to a status. Matching ignores case and
// separators, so "todo", "To Do" and "in_progress" are accepted.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	normalized := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range AllStatuses() {
		if strings.ToLower(string(s)) == normalized {
			return s, true
		}
	}
	return "", false
}

// DistinctStatuses drops duplicates keeping first-seen order.
func DistinctStatuses(statuses []TaskStatus) []TaskStatus {
	seen := make(map[TaskStatus]struct{}, len(statuses))
	out := make([]TaskStatus, 0, len(statuses))
	for _, s := range statuses {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
