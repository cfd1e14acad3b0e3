package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAddRow(t *testing.T) {
	tbl := NewTable("tags", "Tags", "device_group", "tag_name", "color")

	require.NoError(t, tbl.AddRow("EU", "prod", "color1"))
	require.NoError(t, tbl.AddRow("EU", "dev"))

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"EU", "dev", ""}, tbl.Rows[1], "short rows are padded")

	err := tbl.AddRow("a", "b", "c", "d")
	assert.Error(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestTableMaps(t *testing.T) {
	tbl := NewTable("t", "", "a", "b")
	require.NoError(t, tbl.AddRow("1", "2"))

	assert.Equal(t, []map[string]string{{"a": "1", "b": "2"}}, tbl.Maps())
}

func TestRulebaseExpand(t *testing.T) {
	assert.Equal(t, []Rulebase{RulebasePre}, RulebasePre.Expand())
	assert.Equal(t, []Rulebase{RulebasePre, RulebasePost}, RulebaseBoth.Expand())
	assert.True(t, RulebasePost.IsValid())
	assert.False(t, Rulebase("middle").IsValid())
}

func TestNamedObjectHasValue(t *testing.T) {
	assert.True(t, NewNamedObject("EU", "a", "1.1.1.1").HasValue())
	assert.False(t, NewNamedObject("EU", "a", "").HasValue())
	assert.False(t, NewNamedObject("EU", "a", "  ").HasValue())
}
