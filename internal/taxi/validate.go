package taxi

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator"
)

// Messages mirror the ones shown by the web form so a user never sees two
// wordings for the same problem.
const (
	msgRegistration = "Please use a registration name which is a 7 characters' alpha-numerical string"
	msgSeat         = "Please use a seat number between 2 and 20"
	msgRequired     = "may not be null"
)

var seatRe = regexp.MustCompile(`^(0?[2-9]|1[0-9]|2[0])$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("seat", func(fl validator.FieldLevel) bool {
			return seatRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidationError maps a JSON field name to a human-readable message.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v[k]))
	}
	return "invalid taxi: " + strings.Join(parts, "; ")
}

// Validate checks t against the registration and seat rules. It returns a
// ValidationError listing every offending field, or nil.
func Validate(t Taxi) error {
	err := validatorInstance().Struct(t)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate taxi: %w", err)
	}
	out := ValidationError{}
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return msgRequired
	}
	switch fe.Field() {
	case "registration":
		return msgRegistration
	case "seat":
		return msgSeat
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}
