package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmc/internal/dialect"
	_ "gmc/internal/dialect/mysql"
)

func TestGetDialect(t *testing.T) {
	tests := []struct {
		name    string
		typ     dialect.Type
		wantErr bool
	}{
		{name: "mysql", typ: dialect.MySQL},
		{name: "upper case", typ: "MYSQL"},
		{name: "postgres", typ: "postgresql", wantErr: true},
		{name: "empty", typ: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := dialect.GetDialect(tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported dialect")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, dialect.MySQL, d.Name())
			assert.NotNil(t, d.Generator())
		})
	}
}
