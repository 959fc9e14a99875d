package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/response"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// RegisterValidation makes validator report json field names instead of Go field names
func RegisterValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

// bindJSON binds the body into req and writes a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters into req and writes a 400 on failure
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.ValidationError(c, translateValidation(verrs))
		return
	}
	response.BadRequest(c, "Invalid request: "+err.Error())
}

// translateValidation turns validator failures into per-field messages
func translateValidation(verrs validator.ValidationErrors) []apperror.FieldError {
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   fieldPath(fe),
			Message: validationMessage(fe),
		})
	}
	return fields
}

// fieldPath strips the request struct name: "CreateSaleRequest.items[0].quantity" -> "items[0].quantity"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "datetime":
		return "must be a date in the format " + fe.Param()
	default:
		return "failed the " + fe.Tag() + " check"
	}
}

// paramID parses a UUID path parameter and writes a 400 when it is malformed
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseDate parses an optional YYYY-MM-DD value
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: field, Message: "must be a date in the format YYYY-MM-DD"}})
	}
	return &t, nil
}

// parseOptionalID parses an optional UUID query or body value
func parseOptionalID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: field, Message: "must be a valid UUID"}})
	}
	return &id, nil
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// periodRange resolves from/to query dates into a half-open range. Defaults to the current month;
// to is inclusive on input.
func periodRange(fromValue, toValue string) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	f, err := parseDate("from", fromValue)
	if err != nil {
		return from, to, err
	}
	if f != nil {
		from = *f
	}
	t, err := parseDate("to", toValue)
	if err != nil {
		return from, to, err
	}
	if t != nil {
		to = t.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// optionalRange parses optional from/to dates; to is inclusive on input and exclusive on output
func optionalRange(fromValue, toValue string) (*time.Time, *time.Time, error) {
	from, err := parseDate("from", fromValue)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDate("to", toValue)
	if err != nil {
		return nil, nil, err
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, nil
}
