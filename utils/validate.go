package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the struct's `validate` tags and folds any failures into a validation error.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError("invalid input: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return NewValidationError("invalid input: %s", strings.Join(msgs, "; "))
}

// DateLayout is the calendar-day format bookings are keyed by.
const DateLayout = "2006-01-02"

// NormalizeDate reduces a date or RFC3339 timestamp to its calendar day. The day is read in the
// timestamp's own offset, so a late-evening local time keeps the day the client meant.
func NormalizeDate(raw string) (string, time.Time, error) {
	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d.Format(DateLayout), d, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", time.Time{}, NewValidationError("date %q must be YYYY-MM-DD or RFC3339", raw)
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return day.Format(DateLayout), day, nil
}
