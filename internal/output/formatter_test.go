package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatterDefaultsToHuman(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)
	_, ok := f.(humanFormatter)
	assert.True(t, ok)
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name string
		want Formatter
	}{
		{"human", humanFormatter{}},
		{"HUMAN", humanFormatter{}},
		{"json", jsonFormatter{}},
		{"JSON", jsonFormatter{}},
		{"  json  ", jsonFormatter{}},
		{"sql", sqlFormatter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name)
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}

func TestNewFormatterInvalidFormat(t *testing.T) {
	f, err := NewFormatter("yaml")
	assert.Error(t, err)
	assert.Nil(t, f)
	assert.Contains(t, err.Error(), "unsupported format: yaml")
	assert.Contains(t, err.Error(), "use 'human', 'json', or 'sql'")
}

func TestNormalizeStatement(t *testing.T) {
	assert.Equal(t, "", normalizeStatement("   "))
	assert.Equal(t, "CREATE TABLE t;", normalizeStatement("  CREATE TABLE t  "))
	assert.Equal(t, "CREATE TABLE t;", normalizeStatement("CREATE TABLE t;"))
}
