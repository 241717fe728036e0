package apierr

import (
	"errors"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
	"github.com/tuanvumaihuynh/catalog-service/pkg/zerror"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Status int          `json:"status"`
	Title  string       `json:"title"`
	Code   string       `json:"code"`
	Detail string       `json:"detail"`
	Path   string       `json:"path,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

// New converts err into an error response for the request path. Errors that
// are not a ZError are reported as a generic internal error.
func New(err error, path string) ErrorResponse {
	res := errorToErrorResponse(err)
	res.Path = path
	return res
}

// InternalServerErr is the response for errors that carry no catalog code.
var InternalServerErr = ErrorResponse{
	Status: http.StatusInternalServerError,
	Title:  http.StatusText(http.StatusInternalServerError),
	Code:   apperr.InternalErrorCode,
	Detail: "An unexpected error occurred",
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if !errors.As(err, &zErr) {
		return InternalServerErr
	}

	status := ZErrorStatusToHTTPStatus(zErr.Status())
	res := ErrorResponse{
		Status: status,
		Title:  title(zErr.Status(), status),
		Code:   zErr.Code(),
		Detail: zErr.Msg(),
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(zErr.Parent(), &validationErrs) {
		res.Fields = make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			res.Fields[i] = FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}
	}

	return res
}

func title(status zerror.Status, httpStatus int) string {
	if status == zerror.StatusValidationFailed {
		return "Validation Error"
	}
	return http.StatusText(httpStatus)
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusBadRequest, zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
