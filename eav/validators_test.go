package eav

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dubizzle/goeav/schema"
)

func TestValidatorsAcceptMatchingValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		datatype Datatype
		value    any
	}{
		{TypeText, "red"},
		{TypeFloat, 36.6},
		{TypeFloat, 42},
		{TypeFloat, "36.6"},
		{TypeDecimal, decimal.RequireFromString("10.50")},
		{TypeDecimal, "10.50"},
		{TypeInt, 7},
		{TypeInt, int64(7)},
		{TypeInt, "7"},
		{TypeDate, time.Now()},
		{TypeBoolean, false},
		{TypeObject, EntityRef{Type: "patient", ID: 12}},
		{TypeEnum, "yes"},
		{TypeEnum, schema.EnumValueRow{ID: 3, Value: "yes"}},
		{TypeEnumMulti, []string{"yes", "no"}},
		{TypeEnumMulti, []schema.EnumValueRow{{ID: 3, Value: "yes"}}},
		{TypeJSON, map[string]any{"key": "value"}},
	}

	for _, testCase := range testCases {
		validator := datatypeValidators[testCase.datatype]
		require.NotNil(t, validator, "datatype: `%s`", testCase.datatype)
		require.NoError(t, validator(testCase.value), "datatype: `%s`, value: `%v`", testCase.datatype, testCase.value)
	}
}

func TestValidatorsRejectMismatchedValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		datatype Datatype
		value    any
	}{
		{TypeText, 42},
		{TypeFloat, "not a number"},
		{TypeDecimal, "not a number"},
		{TypeInt, "7.5"},
		{TypeInt, true},
		{TypeDate, "2026-08-30"},
		{TypeBoolean, 1},
		{TypeObject, "patient"},
		{TypeObject, EntityRef{Type: "patient"}},
		{TypeEnum, 3},
		{TypeEnum, &schema.EnumValueRow{Value: "unsaved"}},
		{TypeEnumMulti, "yes"},
		{TypeEnumMulti, []any{3}},
		{TypeJSON, `{"key": "value"}`},
	}

	for _, testCase := range testCases {
		validator := datatypeValidators[testCase.datatype]
		require.NotNil(t, validator, "datatype: `%s`", testCase.datatype)

		err := validator(testCase.value)

		var vErr ValidationError
		require.ErrorAs(t, err, &vErr, "datatype: `%s`, value: `%v`", testCase.datatype, testCase.value)
	}
}

func TestValidatorsCoverEveryDatatype(t *testing.T) {
	t.Parallel()

	for _, datatype := range Datatypes() {
		require.Contains(t, datatypeValidators, datatype)
	}
}
