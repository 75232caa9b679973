package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns a binding error into an INVALID_INPUT AppError
// naming the first offending field.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		details := make([]map[string]string, 0, len(errs))
		for _, fe := range errs {
			details = append(details, map[string]string{
				"field": fe.Field(),
				"rule":  fe.Tag(),
			})
		}

		switch e.Tag() {
		case "required":
			return RequiredField(field).WithDetails(details)
		default:
			return InvalidField(field).WithDetails(details)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
