package topsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/model"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]string{"Shoot"}, []string{"ID", " rate "}, []string{"Line", "markup"}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"Shoot"}, opts.Phases)
	assert.Equal(t, []Column{ColumnID, ColumnRate}, opts.Columns)
	assert.Equal(t, []model.LineType{model.LineTypeLine, model.LineTypeMarkup}, opts.LineTypes)
	require.NotNil(t, opts.IncludeHeaders)
	assert.False(t, *opts.IncludeHeaders)
}

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := ParseOptions(nil, nil, nil, false)
	require.NoError(t, err)

	assert.Empty(t, opts.Columns)
	assert.Empty(t, opts.LineTypes)
	assert.True(t, *opts.IncludeHeaders)
}

func TestParseOptions_Unknown(t *testing.T) {
	_, err := ParseOptions(nil, []string{"budget"}, nil, false)
	assert.ErrorIs(t, err, common.ErrUnsupportedInput)

	_, err = ParseOptions(nil, nil, []string{"header"}, false)
	assert.ErrorIs(t, err, common.ErrUnsupportedInput)
}
