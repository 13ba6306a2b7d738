package controller

import (
	"context"

	"github.com/harrypotter228/TaskManagement/internal/task/dto"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

type AttachmentController struct {
	service *service.AttachmentService
}

func NewAttachmentController(svc *service.AttachmentService) *AttachmentController {
	return &AttachmentController{service: svc}
}

func (c *AttachmentController) ListAttachments(ctx context.Context, req dto.ListAttachmentsRequest) (dto.ListAttachmentsResponse, error) {
	items, err := c.service.ListAttachments(ctx, req.BoardID, req.TaskID)
	if err != nil {
		return dto.ListAttachmentsResponse{}, err
	}
	resp := dto.ListAttachmentsResponse{
		Attachments: make([]dto.AttachmentDTO, 0, len(items)),
		Total:       len(items),
	}
	for _, a := range items {
		resp.Attachments = append(resp.Attachments, dto.FromAttachment(a))
	}
	return resp, nil
}

func (c *AttachmentController) CreateAttachment(ctx context.Context, req dto.CreateAttachmentRequest) (dto.AttachmentDTO, error) {
	a, err := c.service.CreateFromURL(ctx, req.BoardID, req.TaskID, &service.CreateAttachmentRequest{
		FileName:         req.FileName,
		MimeType:         req.MimeType,
		URL:              req.URL,
		UploadedByUserID: req.UploadedByUserID,
	})
	if err != nil {
		return dto.AttachmentDTO{}, err
	}
	return dto.FromAttachment(a), nil
}

func (c *AttachmentController) UploadAttachment(ctx context.Context, req dto.UploadAttachmentRequest) (dto.AttachmentDTO, error) {
	a, err := c.service.Upload(ctx, req.BoardID, req.TaskID, &service.UploadAttachmentRequest{
		Content:          req.File,
		FileName:         req.FileName,
		ContentType:      req.ContentType,
		Size:             req.Size,
		UploadedByUserID: req.UploadedByUserID,
	})
	if err != nil {
		return dto.AttachmentDTO{}, err
	}
	return dto.FromAttachment(a), nil
}

func (c *AttachmentController) DeleteAttachment(ctx context.Context, req dto.DeleteAttachmentRequest) error {
	return c.service.Delete(ctx, req.BoardID, req.TaskID, req.AttachmentID)
}
