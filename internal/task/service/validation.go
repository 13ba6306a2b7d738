package service

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
)

// fieldMessages maps "<field>.<tag>" to the message reported for that failure.
var fieldMessages = map[string]string{
	"name.required":             MsgNameRequired,
	"name.max":                  MsgNameTooLong,
	"description.max":           MsgDescriptionTooLong,
	"url.required":              MsgURLRequired,
	"url.absolute_url":          MsgURLNotAbsolute,
	"fileName.required":         MsgFileNameRequired,
	"mimeType.required":         MsgInvalidMimeType,
	"mimeType.image_mime":       MsgInvalidMimeType,
	"uploadedByUserId.required": MsgUploaderRequired,
	"uploadedByUserId.user_id":  MsgUploaderRequired,
}

// defaultValidator serves inputs that do not depend on configuration.
var defaultValidator = newValidator(nil)

// boardFields is the validated board input.
type boardFields struct {
	Name string `json:"name" validate:"required,max=255"`
}

// taskFields is the validated subset of task create and update input.
type taskFields struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// attachmentFields is the validated input of an attachment created from a URL.
type attachmentFields struct {
	URL              string `json:"url" validate:"required,absolute_url"`
	FileName         string `json:"fileName" validate:"required"`
	MimeType         string `json:"mimeType" validate:"required,image_mime"`
	UploadedByUserID string `json:"uploadedByUserId" validate:"required,user_id"`
}

// newValidator builds a validator that reports json field names. allowedMime
// backs the image_mime tag.
func newValidator(allowedMime mimeSet) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("absolute_url", func(fl validator.FieldLevel) bool {
		return isAbsoluteURL(fl.Field().String())
	})
	_ = v.RegisterValidation("user_id", func(fl validator.FieldLevel) bool {
		return validUserID(fl.Field().String())
	})
	_ = v.RegisterValidation("image_mime", func(fl validator.FieldLevel) bool {
		return allowedMime.contains(fl.Field().String())
	})
	return v
}

// validateStruct runs v over s and converts failures into a validation error
// carrying one message per field.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.InternalError("validation failed", err)
	}
	fields := apperrors.FieldErrors{}
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		fields.Set(fe.Field(), msg)
	}
	return fields.Err(MsgValidationFailed)
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}

// validUserID rejects blank ids and the all-zero uuid.
func validUserID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if parsed, err := uuid.Parse(id); err == nil && parsed == uuid.Nil {
		return false
	}
	return true
}

// mimeSet is a case-insensitive set of MIME types.
type mimeSet map[string]struct{}

func newMimeSet(types []string) mimeSet {
	set := make(mimeSet, len(types))
	for _, t := range types {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set
}

func (m mimeSet) contains(mimeType string) bool {
	_, ok := m[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

func validationFailure(field, message string) error {
	return apperrors.ValidationError(field, message)
}
