package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/task/controller"
	"github.com/harrypotter228/TaskManagement/internal/task/dto"
)

type AttachmentHandlers struct {
	controller *controller.AttachmentController
	logger     *logger.Logger
}

func NewAttachmentHandlers(ctrl *controller.AttachmentController, log *logger.Logger) *AttachmentHandlers {
	return &AttachmentHandlers{
		controller: ctrl,
		logger:     log.WithFields(zap.String("component", "attachment-handlers")),
	}
}

func RegisterAttachmentRoutes(router *gin.Engine, ctrl *controller.AttachmentController, log *logger.Logger) *AttachmentHandlers {
	handlers := NewAttachmentHandlers(ctrl, log)
	attachments := router.Group("/api/v1/boards/:boardId/tasks/:taskId/attachments")
	attachments.GET("", handlers.httpListAttachments)
	attachments.POST("", handlers.httpCreateAttachment)
	attachments.POST("/upload", handlers.httpUploadAttachment)
	attachments.DELETE("/:attachmentId", handlers.httpDeleteAttachment)
	return handlers
}

func (h *AttachmentHandlers) httpListAttachments(c *gin.Context) {
	resp, err := h.controller.ListAttachments(c.Request.Context(), dto.ListAttachmentsRequest{
		BoardID: c.Param("boardId"),
		TaskID:  c.Param("taskId"),
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AttachmentHandlers) httpCreateAttachment(c *gin.Context) {
	var body dto.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidPayload(c)
		return
	}
	body.BoardID = c.Param("boardId")
	body.TaskID = c.Param("taskId")
	resp, err := h.controller.CreateAttachment(c.Request.Context(), body)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Header("Location", attachmentsPath(c)+"/"+resp.ID)
	c.JSON(http.StatusCreated, resp)
}

// httpUploadAttachment accepts a multipart form with the image in "file" and
// the uploader in "uploadedByUserId". A missing file is reported by the
// service's validation together with any other field errors.
func (h *AttachmentHandlers) httpUploadAttachment(c *gin.Context) {
	req := dto.UploadAttachmentRequest{
		BoardID: c.Param("boardId"),
		TaskID:  c.Param("taskId"),
	}

	header, err := c.FormFile("file")
	switch {
	case err == nil:
		file, openErr := header.Open()
		if openErr != nil {
			handleError(c, h.logger, apperrors.InternalError("failed to read upload", openErr))
			return
		}
		defer func() { _ = file.Close() }()
		req.File = file
		req.FileName = header.Filename
		req.ContentType = header.Header.Get("Content-Type")
		req.Size = header.Size
	case errors.Is(err, http.ErrMissingFile):
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	req.UploadedByUserID = c.PostForm("uploadedByUserId")

	resp, err := h.controller.UploadAttachment(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Header("Location", attachmentsPath(c)+"/"+resp.ID)
	c.JSON(http.StatusCreated, resp)
}

func (h *AttachmentHandlers) httpDeleteAttachment(c *gin.Context) {
	err := h.controller.DeleteAttachment(c.Request.Context(), dto.DeleteAttachmentRequest{
		BoardID:      c.Param("boardId"),
		TaskID:       c.Param("taskId"),
		AttachmentID: c.Param("attachmentId"),
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func attachmentsPath(c *gin.Context) string {
	return "/api/v1/boards/" + c.Param("boardId") + "/tasks/" + c.Param("taskId") + "/attachments"
}
