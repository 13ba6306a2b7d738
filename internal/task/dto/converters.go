package dto

import (
	"github.com/harrypotter228/TaskManagement/internal/task/models"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

// FromBoard converts a board model to a BoardDTO.
func FromBoard(board *models.Board) BoardDTO {
	return BoardDTO{
		ID:        board.ID,
		Name:      board.Name,
		Statuses:  statusStrings(board.Statuses),
		CreatedAt: board.CreatedAt,
	}
}

// FromBoardStatuses converts the result of a status update.
func FromBoardStatuses(result *service.BoardStatuses) BoardStatusesResponse {
	return BoardStatusesResponse{
		BoardID:  result.BoardID,
		Statuses: statusStrings(result.Statuses),
	}
}

// FromTaskView converts a task seen from a board to a TaskDTO.
func FromTaskView(view *service.TaskView) TaskDTO {
	task := view.Task
	result := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      string(task.Status),
		BoardID:     view.BoardID,
		IsFavorite:  view.IsFavorite,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Deadline != nil {
		deadline := task.DeadlineString()
		result.Deadline = &deadline
	}
	return result
}

// FromTaskViews converts a list, keeping its order.
func FromTaskViews(views []*service.TaskView) ListTasksResponse {
	resp := ListTasksResponse{
		Tasks: make([]TaskDTO, 0, len(views)),
		Total: len(views),
	}
	for _, v := range views {
		resp.Tasks = append(resp.Tasks, FromTaskView(v))
	}
	return resp
}

// FromDeleteTasksResult converts a bulk delete result.
func FromDeleteTasksResult(result *service.DeleteTasksResult) DeleteTasksResponse {
	return DeleteTasksResponse{Removed: result.Removed, NotFound: result.NotFound}
}

// FromAttachment converts an attachment model to an AttachmentDTO.
func FromAttachment(a *models.TaskAttachment) AttachmentDTO {
	return AttachmentDTO{
		ID:               a.ID,
		TaskID:           a.TaskID,
		FileName:         a.FileName,
		MimeType:         a.MimeType,
		URL:              a.URL,
		UploadedByUserID: a.UploadedByUserID,
		UploadedAtUTC:    a.UploadedAtUTC,
	}
}

func statusStrings(statuses []models.TaskStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
