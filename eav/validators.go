package eav

import (
	"strconv"
	"time"

	"github.com/dubizzle/goeav/schema"
	"github.com/shopspring/decimal"
)

// Validator checks the shape of a raw value against one datatype. Validators
// are pure: no I/O, no mutation. Enum membership is checked separately by
// Repository.ValidateValue.
type Validator func(value any) error

var datatypeValidators = map[Datatype]Validator{
	TypeText:      validateText,
	TypeFloat:     validateFloat,
	TypeDecimal:   validateDecimal,
	TypeInt:       validateInt,
	TypeDate:      validateDate,
	TypeBoolean:   validateBool,
	TypeObject:    validateObject,
	TypeEnum:      validateEnum,
	TypeEnumMulti: validateEnumMulti,
	TypeJSON:      validateJSON,
}

func validateText(value any) error {
	if _, ok := value.(string); !ok {
		return ValidationError{Reason: "must be a string"}
	}

	return nil
}

func validateJSON(value any) error {
	if _, ok := value.(map[string]any); !ok {
		return ValidationError{Reason: "must be a mapping"}
	}

	return nil
}

func validateFloat(value any) error {
	if _, ok := toFloat64(value); !ok {
		return ValidationError{Reason: "must be a float"}
	}

	return nil
}

func validateDecimal(value any) error {
	if _, ok := toDecimal(value); !ok {
		return ValidationError{Reason: "must be a decimal"}
	}

	return nil
}

func validateInt(value any) error {
	if _, ok := toInt64(value); !ok {
		return ValidationError{Reason: "must be an integer"}
	}

	return nil
}

func validateDate(value any) error {
	if _, ok := value.(time.Time); !ok {
		return ValidationError{Reason: "must be a date or datetime"}
	}

	return nil
}

func validateBool(value any) error {
	if _, ok := value.(bool); !ok {
		return ValidationError{Reason: "must be a boolean"}
	}

	return nil
}

func validateObject(value any) error {
	ref, ok := value.(Addressable)
	if !ok {
		return ValidationError{Reason: "must be an addressable record"}
	}

	if ref.EntityID() == 0 {
		return ValidationError{Reason: "record has not been saved yet"}
	}

	return nil
}

func validateEnum(value any) error {
	switch v := value.(type) {
	case string:
		return nil
	case schema.EnumValueRow:
		if v.ID == 0 {
			return ValidationError{Reason: "enum value has not been saved yet"}
		}

		return nil
	case *schema.EnumValueRow:
		if v == nil || v.ID == 0 {
			return ValidationError{Reason: "enum value has not been saved yet"}
		}

		return nil
	default:
		return ValidationError{Reason: "must be a saved enum value or a string"}
	}
}

func validateEnumMulti(value any) error {
	items, err := collectionItems(value)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := validateEnum(item); err != nil {
			return err
		}
	}

	return nil
}

// collectionItems normalizes the accepted multi-choice collection kinds into
// a flat []any.
func collectionItems(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, item)
		}

		return items, nil
	case []schema.EnumValueRow:
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, item)
		}

		return items, nil
	case []*schema.EnumValueRow:
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, item)
		}

		return items, nil
	default:
		return nil, ValidationError{Reason: "must be a collection of enum values"}
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)

		return f, err == nil
	default:
		return 0, false
	}
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(v, 10, 64)

		return i, err == nil
	default:
		return 0, false
	}
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := decimal.NewFromString(v)

		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}
