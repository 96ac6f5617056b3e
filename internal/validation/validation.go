// Package validation checks invocation events against an ordered list of field rules.
package validation

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/isometry/guardduty-proxy-app/internal/models"
)

// Error is returned for the first rule an event does not satisfy.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Rule binds a field of the event to validator tags and the message reported when they fail.
type Rule struct {
	Field   string
	Tags    string
	Message string
}

// Rules is an ordered list of field rules; the first failing rule wins.
type Rules []Rule

// FindingsRules are the rules of the get-findings function, in evaluation order.
var FindingsRules = Rules{
	{Field: models.FieldDetectorID, Tags: "required,text", Message: "DetectorId is required"},
	{Field: models.FieldFindingRegion, Tags: "required,text", Message: "FindingRegion is required"},
	{Field: models.FieldFindingIDs, Tags: "required,sequence,min=1,dive,text", Message: "FindingIds must be a non-empty list"},
}

// Validator evaluates Rules against events.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the event-specific tags registered:
// "text" accepts strings only and "sequence" accepts slices and arrays only.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("text", isKind(reflect.String))
	_ = v.RegisterValidation("sequence", isKind(reflect.Slice, reflect.Array))
	return &Validator{v: v}
}

// Validate returns an *Error for the first rule the event violates, or nil.
func (val *Validator) Validate(event models.Event, rules Rules) error {
	for _, rule := range rules {
		value, _ := event.Get(rule.Field)
		if err := val.v.Var(value, rule.Tags); err != nil {
			e := &Error{Field: rule.Field, Message: rule.Message}
			if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
				e.Tag = fieldErrs[0].Tag()
			}
			return e
		}
	}
	return nil
}

func isKind(kinds ...reflect.Kind) validator.Func {
	return func(fl validator.FieldLevel) bool {
		k := fl.Field().Kind()
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}
