// Package validation checks memory input at the service boundary.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/timeline"
	"github.com/go-playground/validator/v10"
)

// MemoryInput is a create request.
type MemoryInput struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=5,max=5000"`
	Date        string `json:"date" validate:"required,calendardate"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// Memory builds the record for userID. The id is left for the caller.
func (in MemoryInput) Memory(userID string) models.Memory {
	return models.Memory{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
	}
}

// PatchInput is a partial update. Only present fields are checked.
type PatchInput struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,min=3,max=200"`
	Description *string `json:"description,omitempty" validate:"omitnil,min=5,max=5000"`
	Date        *string `json:"date,omitempty" validate:"omitnil,calendardate"`
	Location    *string `json:"location,omitempty" validate:"omitnil,max=200"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitnil,urlorempty"`
}

func (in PatchInput) Patch() models.MemoryPatch {
	return models.MemoryPatch{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
	}
}

// FieldError describes one rejected field using its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error collects every rejected field. It matches common.ErrorValidation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", common.ErrorValidation, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return common.ErrorValidation
}

// Invalid builds an Error for a single field.
func Invalid(field, code, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Code: code, Message: message}}}
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, ok := timeline.ParseDate(fl.Field().String(), time.UTC)
		return ok
	})

	_ = v.RegisterValidation("urlorempty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	})

	return &Validator{validate: v}
}

// Struct validates i and returns an *Error listing every failing field.
func (v *Validator) Struct(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Code:    strings.ToUpper(fe.Tag()),
			Message: formatFieldError(fe),
		})
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "url", "urlorempty":
		return "Must be a valid URL"
	case "calendardate":
		return "Invalid date"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
