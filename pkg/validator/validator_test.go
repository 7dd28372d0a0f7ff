package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" validate:"required,notblank"`
	Qty   int      `json:"qty" validate:"min=1"`
	Price *float64 `json:"price" validate:"omitempty,min=0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	price := 2.5
	errs := ValidateStruct(&sample{Name: "widget", Qty: 1, Price: &price})
	assert.Empty(t, errs)
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	price := -1.0
	errs := ValidateStruct(&sample{Name: "   ", Qty: 0, Price: &price})
	require.Len(t, errs, 3)

	fields := []string{errs[0].FailedField, errs[1].FailedField, errs[2].FailedField}
	assert.ElementsMatch(t, []string{"Name", "Qty", "Price"}, fields)
}

func TestValidateStruct_NilPointerSkipped(t *testing.T) {
	errs := ValidateStruct(&sample{Name: "widget", Qty: 3})
	assert.Empty(t, errs)
}

func TestDescribe(t *testing.T) {
	msg := Describe([]*ErrorResponse{
		{FailedField: "Qty", Tag: "min", Value: "1"},
		{FailedField: "Name", Tag: "required"},
	})
	assert.Equal(t, "field 'Qty' failed on 'min=1'; field 'Name' failed on 'required'", msg)
}
