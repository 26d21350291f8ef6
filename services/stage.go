package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StageOptions tune one wizard stage's upstream calls.
type StageOptions struct {
	// Search enables the search-capable primary attempt. When false a single
	// tool-free attempt is made and there is no fallback.
	Search      bool
	MaxTokens   int
	Temperature float64
	// DebugLimit > 0 adds a truncated copy of the raw upstream text to
	// responses.
	DebugLimit int
}

func (o StageOptions) request(prompt, searchQuery string, search bool) CompletionRequest {
	return CompletionRequest{
		Prompt:      withoutSearch(prompt, search),
		Search:      search,
		SearchQuery: searchQuery,
		MaxTokens:   o.MaxTokens,
		Temperature: o.Temperature,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks struct tags and reports the first violation as
// ErrInvalidInput.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return invalidInput(describeViolation(verrs[0]))
	}
	return invalidInput(err.Error())
}

func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
