package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_PingRoleEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role string
		want bool
	}{
		{role: "", want: false},
		{role: "0", want: false},
		{role: "1234567890", want: true},
	}

	for _, tt := range tests {
		cfg := &Config{GamePingRoleID: tt.role}
		assert.Equal(t, tt.want, cfg.PingRoleEnabled(), "role %q", tt.role)
	}
}
