package validation

import (
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/shopswift/marketplace/services/common/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 100000
)

// RequestValidator validates decoded request bodies and reports field errors by JSON name.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Struct runs the validate tags on v.
func (rv *RequestValidator) Struct(v interface{}) error {
	if err := rv.validate.Struct(v); err != nil {
		return FromBindError(err)
	}
	return nil
}

// Bind decodes the JSON body into req and validates its validate tags.
func (rv *RequestValidator) Bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return FromBindError(err)
	}
	return rv.Struct(req)
}

// FromBindError turns a binding or validation failure into a ValidationError.
func FromBindError(err error) error {
	if stderrors.Is(err, io.EOF) {
		return apperrors.Validation("Request body is required")
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return apperrors.Validation("Invalid request body")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.Validation(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "hexadecimal", "len":
		return field + " is malformed"
	default:
		return field + " is invalid"
	}
}

// ParsePagination reads page and limit, falling back to defaults on bad input.
// Both are clamped so (page-1)*limit stays well inside int range.
func ParsePagination(c *gin.Context) (int, int) {
	page := DefaultPage
	limit := DefaultLimit

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
		if page > MaxPage {
			page = MaxPage
		}
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
		if limit > MaxLimit {
			limit = MaxLimit
		}
	}
	return page, limit
}
