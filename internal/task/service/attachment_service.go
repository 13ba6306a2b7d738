package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/config"
	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/common/tracing"
	"github.com/harrypotter228/TaskManagement/internal/events"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	"github.com/harrypotter228/TaskManagement/internal/task/models"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
)

const attachmentTracer = "taskboard/attachments"

// CreateAttachmentRequest attaches a file that already lives at URL.
type CreateAttachmentRequest struct {
	FileName         string
	MimeType         string
	URL              string
	UploadedByUserID string
}

// UploadAttachmentRequest carries an uploaded file. Size is the declared
// length; the limit is also enforced while reading Content.
type UploadAttachmentRequest struct {
	Content          io.Reader
	FileName         string
	ContentType      string
	Size             int64
	UploadedByUserID string
}

// AttachmentService manages task attachments and the uploaded files behind them.
type AttachmentService struct {
	boards   repository.BoardStore
	tasks    repository.TaskStore
	links    repository.BoardTaskIndex
	cfg      config.AttachmentsConfig
	allowed  mimeSet
	validate *validator.Validate
	publisher
}

// NewAttachmentService creates an attachment service. Zero limits in cfg fall
// back to the defaults.
func NewAttachmentService(boards repository.BoardStore, tasks repository.TaskStore, links repository.BoardTaskIndex, cfg config.AttachmentsConfig, eventBus bus.EventBus, log *logger.Logger) *AttachmentService {
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = config.DefaultMaxFileSizeBytes
	}
	if cfg.MaxFileNameLength <= 0 {
		cfg.MaxFileNameLength = config.DefaultMaxFileNameLength
	}
	if len(cfg.AllowedMimeTypes) == 0 {
		cfg.AllowedMimeTypes = config.DefaultAllowedMimeTypes
	}
	cfg.UploadsPath = strings.Trim(cfg.UploadsPath, "/")
	if cfg.UploadsPath == "" {
		cfg.UploadsPath = config.DefaultUploadsPath
	}

	allowed := newMimeSet(cfg.AllowedMimeTypes)
	return &AttachmentService{
		boards:    boards,
		tasks:     tasks,
		links:     links,
		cfg:       cfg,
		allowed:   allowed,
		validate:  newValidator(allowed),
		publisher: publisher{eventBus: eventBus, logger: log, source: "attachment-service"},
	}
}

// ListAttachments returns the task's attachments, newest first.
func (s *AttachmentService) ListAttachments(ctx context.Context, boardID, taskID string) ([]*models.TaskAttachment, error) {
	if err := s.checkLink(boardID, taskID); err != nil {
		return nil, err
	}
	task, ok := s.tasks.Get(taskID)
	if !ok {
		return nil, apperrors.NotFound(MsgTaskNotFound)
	}

	items := append([]*models.TaskAttachment(nil), task.Attachments...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UploadedAtUTC.After(items[j].UploadedAtUTC)
	})
	return items, nil
}

// CreateFromURL attaches an image that is already hosted elsewhere.
func (s *AttachmentService) CreateFromURL(ctx context.Context, boardID, taskID string, req *CreateAttachmentRequest) (*models.TaskAttachment, error) {
	if err := s.checkLink(boardID, taskID); err != nil {
		return nil, err
	}
	fields := attachmentFields{
		URL:              strings.TrimSpace(req.URL),
		FileName:         strings.TrimSpace(req.FileName),
		MimeType:         strings.TrimSpace(req.MimeType),
		UploadedByUserID: strings.TrimSpace(req.UploadedByUserID),
	}
	if err := validateStruct(s.validate, fields); err != nil {
		return nil, err
	}
	fileName := SanitizeFileName(fields.FileName, s.cfg.MaxFileNameLength)
	if fileName == "" {
		return nil, validationFailure("fileName", MsgFileNameRequired)
	}

	var attachment *models.TaskAttachment
	if _, err := s.tasks.Modify(taskID, func(task *models.Task) error {
		attachment = task.AddAttachment(fileName, fields.MimeType, fields.URL, fields.UploadedByUserID)
		return nil
	}); err != nil {
		return nil, taskStoreError(err)
	}

	s.logger.WithTaskID(taskID).Info("attachment added", zap.String("attachment_id", attachment.ID), zap.String("url", attachment.URL))
	s.publish(ctx, events.AttachmentAdded, attachmentEventData(boardID, attachment))
	return attachment, nil
}

// Upload stores the file under the web root and attaches it. The record is
// added only after the file is fully written.
func (s *AttachmentService) Upload(ctx context.Context, boardID, taskID string, req *UploadAttachmentRequest) (attachment *models.TaskAttachment, err error) {
	ctx, span := tracing.StartSpan(ctx, attachmentTracer, "attachment.upload", "board_id", boardID, "task_id", taskID)
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	if err := s.checkLink(boardID, taskID); err != nil {
		return nil, err
	}
	if err := s.validateUpload(req); err != nil {
		return nil, err
	}
	if _, ok := s.tasks.Get(taskID); !ok {
		return nil, apperrors.NotFound(MsgTaskNotFound)
	}
	if req.Size > s.cfg.MaxFileSizeBytes {
		return nil, s.fileTooLarge()
	}

	fileName := SanitizeFileName(req.FileName, s.cfg.MaxFileNameLength)
	if fileName == "" {
		fileName = "upload"
	}
	dirName := uploadDirName(taskID)
	dir := filepath.Join(s.cfg.WebRoot, s.cfg.UploadsPath, dirName)
	storedName, contentType, err := s.writeUpload(ctx, dir, fileName, req)
	if err != nil {
		return nil, err
	}
	fileURL := "/" + s.cfg.UploadsPath + "/" + dirName + "/" + url.PathEscape(storedName)

	uploader := strings.TrimSpace(req.UploadedByUserID)
	if _, err := s.tasks.Modify(taskID, func(task *models.Task) error {
		attachment = task.AddAttachment(fileName, contentType, fileURL, uploader)
		return nil
	}); err != nil {
		s.removeFile(ctx, filepath.Join(dir, storedName))
		return nil, taskStoreError(err)
	}

	s.logger.WithTaskID(taskID).Info("attachment uploaded",
		zap.String("attachment_id", attachment.ID),
		zap.String("url", fileURL),
		zap.String("mime_type", contentType))
	s.publish(ctx, events.AttachmentAdded, attachmentEventData(boardID, attachment))
	return attachment, nil
}

// Delete removes the attachment record. Files under the uploads path are
// deleted on a best-effort basis; failures are logged and ignored.
func (s *AttachmentService) Delete(ctx context.Context, boardID, taskID, attachmentID string) (err error) {
	ctx, span := tracing.StartSpan(ctx, attachmentTracer, "attachment.delete", "board_id", boardID, "task_id", taskID, "attachment_id", attachmentID)
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	if err := s.checkLink(boardID, taskID); err != nil {
		return err
	}
	var attachment *models.TaskAttachment
	_, err = s.tasks.Modify(taskID, func(task *models.Task) error {
		found, ok := task.FindAttachment(attachmentID)
		if !ok {
			return apperrors.NotFound(MsgAttachmentNotFound)
		}
		attachment = found
		task.RemoveAttachment(attachmentID)
		return nil
	})
	if err != nil {
		return taskStoreError(err)
	}

	if path, local := s.localPath(attachment.URL); local {
		s.removeFile(ctx, path)
	}

	s.logger.WithTaskID(taskID).Info("attachment deleted", zap.String("attachment_id", attachmentID))
	s.publish(ctx, events.AttachmentDeleted, attachmentEventData(boardID, attachment))
	return nil
}

func (s *AttachmentService) checkLink(boardID, taskID string) error {
	if _, ok := s.boards.Get(boardID); !ok {
		return apperrors.NotFound(MsgBoardNotFound)
	}
	if !s.links.Exists(boardID, taskID) {
		return apperrors.NotFound(MsgTaskNotInBoard)
	}
	return nil
}

func (s *AttachmentService) validateUpload(req *UploadAttachmentRequest) error {
	fields := apperrors.FieldErrors{}
	if req.Content == nil || req.Size == 0 {
		fields.Set("file", MsgImageFileRequired)
	}
	if !validUserID(req.UploadedByUserID) {
		fields.Set("uploadedByUserId", MsgUploaderRequired)
	}
	if ct := strings.TrimSpace(req.ContentType); ct != "" && !s.allowed.contains(ct) {
		fields.Set("file", MsgUnsupportedImage)
	}
	return fields.Err(MsgValidationFailed)
}

func (s *AttachmentService) fileTooLarge() error {
	msg := fmt.Sprintf(msgFileTooLargeFormat, s.cfg.MaxFileSizeBytes/(1024*1024))
	return apperrors.ValidationError("file", msg)
}

// writeUpload streams the content into dir through a temp file and returns
// the name it was stored under and the content type to record.
func (s *AttachmentService) writeUpload(ctx context.Context, dir, name string, req *UploadAttachmentRequest) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", apperrors.InternalError("failed to create upload directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", "", apperrors.InternalError("failed to create upload file", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	limit := s.cfg.MaxFileSizeBytes
	n, copyErr := io.Copy(tmp, io.LimitReader(&contextReader{ctx: ctx, r: req.Content}, limit+1))
	closeErr := tmp.Close()
	switch {
	case copyErr != nil && ctx.Err() != nil:
		return "", "", ctx.Err()
	case copyErr != nil:
		return "", "", apperrors.InternalError("failed to write upload", copyErr)
	case closeErr != nil:
		return "", "", apperrors.InternalError("failed to write upload", closeErr)
	case n > limit:
		return "", "", s.fileTooLarge()
	case n == 0:
		return "", "", validationFailure("file", MsgImageFileRequired)
	}

	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		detected, err := mimetype.DetectFile(tmpPath)
		if err != nil {
			return "", "", apperrors.InternalError("failed to detect upload type", err)
		}
		contentType, _, _ = strings.Cut(detected.String(), ";")
		if !s.allowed.contains(contentType) {
			return "", "", validationFailure("file", MsgUnsupportedImage)
		}
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", "", apperrors.InternalError("failed to store upload", err)
	}
	stored, err := linkUnique(tmpPath, dir, name)
	if err != nil {
		return "", "", apperrors.InternalError("failed to store upload", err)
	}
	return stored, contentType, nil
}

// maxNameAttempts bounds the suffixes tried for a taken file name.
const maxNameAttempts = 1000

// linkUnique hard-links src into dir as name, or as "base-N.ext" when name is
// taken, and returns the name used. An existing upload is never replaced.
func linkUnique(src, dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; i <= maxNameAttempts; i++ {
		err := os.Link(src, filepath.Join(dir, candidate))
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d%s", base, i, ext)
	}
	return "", fmt.Errorf("no free name for %q after %d attempts", name, maxNameAttempts)
}

// localPath maps an uploads URL to its file under the web root. Absolute URLs
// and paths that resolve outside the uploads directory are rejected.
func (s *AttachmentService) localPath(rawURL string) (string, bool) {
	prefix := "/" + s.cfg.UploadsPath + "/"
	if !strings.HasPrefix(strings.ToLower(rawURL), strings.ToLower(prefix)) {
		return "", false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return "", false
	}

	root := filepath.Clean(s.cfg.WebRoot)
	full := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(parsed.Path, "/")))
	rel, err := filepath.Rel(filepath.Join(root, s.cfg.UploadsPath), full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return full, true
}

func (s *AttachmentService) removeFile(ctx context.Context, path string) {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	s.logger.WithContext(ctx).Warn("failed to delete attachment file", zap.String("path", path), zap.Error(err))
}

// uploadDirName is the task id without dashes.
func uploadDirName(taskID string) string {
	return SanitizeFileName(strings.ReplaceAll(taskID, "-", ""), 0)
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
