package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw     string
		want    Role
		wantErr bool
	}{
		{"HR_ADMINISTRATOR", RoleHRAdministrator, false},
		{"EMPLOYEE", RoleEmployee, false},
		{"employee", "", true},
		{"ADMIN", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleIsHR(t *testing.T) {
	assert.True(t, RoleHRAdministrator.IsHR())
	assert.False(t, RoleEmployee.IsHR())
	assert.False(t, Role("ADMIN").IsHR())
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	p := &Principal{UserID: uuid.New(), Role: RoleEmployee}
	got, ok := FromContext(NewContext(context.Background(), p))
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.True(t, got.HasRole(RoleHRAdministrator, RoleEmployee))
	assert.False(t, got.HasRole(RoleHRAdministrator))
}
