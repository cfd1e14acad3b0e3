package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateKindString(t *testing.T) {
	tests := []struct {
		kind DuplicateKind
		want string
	}{
		{0, ""},
		{DuplicateName, "name"},
		{DuplicateValue, "value"},
		{DuplicateName | DuplicateValue, "name,value"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestDuplicateKindHas(t *testing.T) {
	both := DuplicateName | DuplicateValue

	assert.True(t, both.Has(DuplicateName))
	assert.True(t, both.Has(DuplicateValue))
	assert.True(t, both.Has(both))
	assert.False(t, DuplicateName.Has(DuplicateValue))
	assert.False(t, DuplicateName.Has(both))
	assert.False(t, both.Has(0), "empty set is never reported as contained")
}

func TestDuplicateReportRowRecord(t *testing.T) {
	row := DuplicateReportRow{
		Scope:         "EU",
		ObjectName:    "web-1",
		ObjectValue:   "10.0.0.1/32",
		Kind:          DuplicateName | DuplicateValue,
		DuplicateWith: []string{"web-1", "web-2"},
	}

	assert.Equal(t,
		[]string{"EU", "web-1", "10.0.0.1/32", "name,value", "web-1,web-2"},
		row.Record())
	assert.Len(t, row.Record(), len(DuplicateColumns))
}
