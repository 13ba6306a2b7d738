package service

// Client-facing messages. They are part of the API contract.
const (
	MsgValidationFailed    = "Validation failed."
	MsgBoardNotFound       = "Board not found."
	MsgTaskNotInBoard      = "Task is not in this board."
	MsgTaskNotFound        = "Task not found."
	MsgAttachmentNotFound  = "Attachment not found."
	MsgNameRequired        = "Name is required."
	MsgNameTooLong         = "Name cannot exceed 255 characters."
	MsgDescriptionTooLong  = "Description cannot exceed 1000 characters."
	MsgInvalidDate         = "Invalid date format. Use yyyy-MM-dd."
	MsgTaskIDsRequired     = "TaskIds is required."
	MsgStatusesRequired    = "At least one valid status is required."
	MsgInvalidStatus       = "Invalid status."
	MsgUserIDRequired      = "userId is required."
	MsgURLRequired         = "Url is required."
	MsgURLNotAbsolute      = "Url must be an absolute URI."
	MsgFileNameRequired    = "FileName is required."
	MsgInvalidMimeType     = "Invalid or unsupported image mime type."
	MsgUploaderRequired    = "uploadedByUserId is required."
	MsgImageFileRequired   = "Image file is required."
	MsgUnsupportedImage    = "Unsupported image type."
	msgFileTooLargeFormat  = "File too large. Max %d MB."
)

// Limits on task fields.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)
