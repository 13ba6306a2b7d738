package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
)

// DateLayout is the wire format of task deadlines.
const DateLayout = "2006-01-02"

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// Board is a named set of status columns.
type Board struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Statuses  []TaskStatus `json:"statuses"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewBoard creates a board with no statuses.
func NewBoard(name string) (*Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidArgument("board name is required")
	}
	return &Board{
		ID:        uuid.New().String(),
		Name:      name,
		Statuses:  []TaskStatus{},
		CreatedAt: now(),
	}, nil
}

// SetStatuses replaces the status columns. Duplicates are dropped keeping the
// first occurrence; an empty result is rejected and leaves the board unchanged.
func (b *Board) SetStatuses(statuses []TaskStatus) error {
	distinct := DistinctStatuses(statuses)
	if len(distinct) == 0 {
		return apperrors.InvalidState("a board needs at least one status")
	}
	b.Statuses = distinct
	return nil
}

// HasStatus reports whether status is one of the board's columns.
func (b *Board) HasStatus(status TaskStatus) bool {
	for _, s := range b.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with b.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	c := *b
	c.Statuses = append([]TaskStatus(nil), b.Statuses...)
	return &c
}

// Task is a unit of work. It can be linked to several boards; the links live
// in the board-task index, not on the task.
type Task struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	Status      TaskStatus        `json:"status"`
	Attachments []*TaskAttachment `json:"attachments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewTask builds a task through Rename and UpdateDetails so the same
// invariants apply on creation and on edit.
func NewTask(name, description string, deadline *time.Time, status TaskStatus) (*Task, error) {
	created := now()
	t := &Task{
		ID:          uuid.New().String(),
		Status:      status,
		Attachments: []*TaskAttachment{},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if err := t.Rename(name); err != nil {
		return nil, err
	}
	t.UpdateDetails(description, deadline)
	return t, nil
}

// Rename sets the trimmed name.
func (t *Task) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.InvalidArgument("task name is required")
	}
	t.Name = name
	t.touch()
	return nil
}

// UpdateDetails sets the trimmed description and the deadline (nil clears it).
func (t *Task) UpdateDetails(description string, deadline *time.Time) {
	t.Description = strings.TrimSpace(description)
	t.Deadline = truncateToDate(deadline)
	t.touch()
}

// ChangeStatus moves the task to status. Setting the current status is a no-op.
func (t *Task) ChangeStatus(status TaskStatus) {
	if t.Status == status {
		return
	}
	t.Status = status
	t.touch()
}

// AddAttachment records a new attachment and returns it.
func (t *Task) AddAttachment(fileName, mimeType, url, uploadedByUserID string) *TaskAttachment {
	a := &TaskAttachment{
		ID:               uuid.New().String(),
		TaskID:           t.ID,
		FileName:         fileName,
		MimeType:         mimeType,
		URL:              url,
		UploadedByUserID: uploadedByUserID,
		UploadedAtUTC:    now(),
	}
	t.Attachments = append(t.Attachments, a)
	t.touch()
	return a
}

// RemoveAttachment drops the attachment with the given id. Unknown ids are ignored.
func (t *Task) RemoveAttachment(attachmentID string) {
	kept := t.Attachments[:0]
	for _, a := range t.Attachments {
		if a.ID != attachmentID {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(t.Attachments); i++ {
		t.Attachments[i] = nil
	}
	t.Attachments = kept
	t.touch()
}

// FindAttachment returns the attachment with the given id.
func (t *Task) FindAttachment(attachmentID string) (*TaskAttachment, bool) {
	for _, a := range t.Attachments {
		if a.ID == attachmentID {
			return a, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	c.Attachments = make([]*TaskAttachment, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		copied := *a
		c.Attachments = append(c.Attachments, &copied)
	}
	return &c
}

// DeadlineString formats the deadline as yyyy-MM-dd, or "" when unset.
func (t *Task) DeadlineString() string {
	if t.Deadline == nil {
		return ""
	}
	return t.Deadline.Format(DateLayout)
}

func (t *Task) touch() {
	ts := now()
	if ts.Before(t.CreatedAt) {
		ts = t.CreatedAt
	}
	t.UpdatedAt = ts
}

// TaskAttachment is a file reference owned by a task. URL is either absolute
// or a path relative to the web root.
type TaskAttachment struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"task_id"`
	FileName         string    `json:"file_name"`
	MimeType         string    `json:"mime_type"`
	URL              string    `json:"url"`
	UploadedByUserID string    `json:"uploaded_by_user_id"`
	UploadedAtUTC    time.Time `json:"uploaded_at_utc"`
}

// ParseDeadline parses a yyyy-MM-dd date. Blank input yields nil.
func ParseDeadline(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func truncateToDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &date
}
