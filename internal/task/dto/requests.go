package dto

import "io"

type CreateBoardRequest struct {
	Name     string   `json:"name"`
	Statuses []string `json:"statuses,omitempty"`
}

type GetBoardRequest struct {
	ID string
}

type UpdateBoardStatusesRequest struct {
	BoardID  string   `json:"-"`
	Statuses []string `json:"statuses"`
}

type ListTasksRequest struct {
	BoardID string
	UserID  string
	Status  string
	Search  string
}

type ListTasksByColumnRequest struct {
	BoardID string
	UserID  string
	Status  string
}

type GetTaskRequest struct {
	BoardID string
	TaskID  string
	UserID  string
}

type CreateTaskRequest struct {
	BoardID     string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

type UpdateTaskRequest struct {
	BoardID     string `json:"-"`
	TaskID      string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Status      string `json:"status"`
	UserID      string `json:"userId"`
}

type ChangeTaskStatusRequest struct {
	BoardID string `json:"-"`
	TaskID  string `json:"-"`
	Status  string `json:"status"`
	UserID  string `json:"userId"`
}

type DeleteTaskRequest struct {
	BoardID string
	TaskID  string
}

type DeleteTasksRequest struct {
	BoardID string   `json:"-"`
	TaskIDs []string `json:"taskIds"`
}

type ListAttachmentsRequest struct {
	BoardID string
	TaskID  string
}

type CreateAttachmentRequest struct {
	BoardID          string `json:"-"`
	TaskID           string `json:"-"`
	FileName         string `json:"fileName"`
	MimeType         string `json:"mimeType"`
	URL              string `json:"url"`
	UploadedByUserID string `json:"uploadedByUserId"`
}

// UploadAttachmentRequest is built from a multipart form, not JSON.
type UploadAttachmentRequest struct {
	BoardID          string
	TaskID           string
	File             io.Reader
	FileName         string
	ContentType      string
	Size             int64
	UploadedByUserID string
}

type DeleteAttachmentRequest struct {
	BoardID      string
	TaskID       string
	AttachmentID string
}

type FavoriteRequest struct {
	UserID string
	TaskID string
}
