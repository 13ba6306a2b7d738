// Package dto holds the JSON shapes of the task board HTTP API.
package dto

import "time"

type BoardDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Statuses  []string  `json:"statuses"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListBoardsResponse struct {
	Boards []BoardDTO `json:"boards"`
	Total  int        `json:"total"`
}

type BoardStatusesResponse struct {
	BoardID  string   `json:"boardId"`
	Statuses []string `json:"statuses"`
}

// TaskDTO is a task as seen from one board. Deadline is yyyy-MM-dd.
type TaskDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deadline    *string   `json:"deadline"`
	Status      string    `json:"status"`
	BoardID     string    `json:"boardId"`
	IsFavorite  bool      `json:"isFavorite"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListTasksResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Total int       `json:"total"`
}

type DeleteTasksResponse struct {
	Removed  []string `json:"removed"`
	NotFound []string `json:"notFound"`
}

type AttachmentDTO struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"taskId"`
	FileName         string    `json:"fileName"`
	MimeType         string    `json:"mimeType"`
	URL              string    `json:"url"`
	UploadedByUserID string    `json:"uploadedByUserId"`
	UploadedAtUTC    time.Time `json:"uploadedAtUtc"`
}

type ListAttachmentsResponse struct {
	Attachments []AttachmentDTO `json:"attachments"`
	Total       int             `json:"total"`
}

type FavoritesResponse struct {
	UserID  string   `json:"userId"`
	TaskIDs []string `json:"taskIds"`
}
