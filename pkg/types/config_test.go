package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend",
			config:  Config{DataDir: "/tmp/layout"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend",
			config:  Config{Backend: "oa", DataDir: "/tmp/layout"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "sqlite backend",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/layout"},
		},
		{
			name:   "sqlite without data dir",
			config: Config{Backend: BackendSQLite},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
