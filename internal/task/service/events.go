package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	"github.com/harrypotter228/TaskManagement/internal/task/models"
)

// publisher sends domain events. A nil bus disables publishing.
type publisher struct {
	eventBus bus.EventBus
	logger   *logger.Logger
	source   string
}

func (p publisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.eventBus == nil {
		return
	}
	event := bus.NewEvent(eventType, p.source, data)
	if err := p.eventBus.Publish(ctx, eventType, event); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func taskEventData(boardID string, task *models.Task) map[string]interface{} {
	data := map[string]interface{}{
		"board_id":    boardID,
		"task_id":     task.ID,
		"name":        task.Name,
		"description": task.Description,
		"status":      string(task.Status),
		"updated_at":  task.UpdatedAt.Format(time.RFC3339),
	}
	if task.Deadline != nil {
		data["deadline"] = task.DeadlineString()
	}
	return data
}

func attachmentEventData(boardID string, a *models.TaskAttachment) map[string]interface{} {
	return map[string]interface{}{
		"board_id":      boardID,
		"task_id":       a.TaskID,
		"attachment_id": a.ID,
		"file_name":     a.FileName,
		"mime_type":     a.MimeType,
		"url":           a.URL,
	}
}
