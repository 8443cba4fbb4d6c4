package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		wantErr  bool
	}{
		{"", RoleUser, false},
		{"user", RoleUser, false},
		{"stations", RoleStations, false},
		{"admin", RoleAdmin, false},
		{"superuser", "", true},
		{"Admin", "", true},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppointmentStatusValid(t *testing.T) {
	for _, s := range AppointmentStatuses() {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, AppointmentStatus("bogus").Valid())
	assert.False(t, AppointmentStatus("").Valid())
	assert.False(t, AppointmentStatus("Pending").Valid())
}

func TestErrorTaxonomy(t *testing.T) {
	ve := NewValidationError("status", "invalid status")
	nf := NewNotFoundError("appointment")
	ia := fmt.Errorf("bad radius: %w", ErrInvalidArgument)

	assert.True(t, IsValidation(ve))
	assert.False(t, IsValidation(nf))

	assert.True(t, IsNotFound(nf))
	assert.False(t, IsNotFound(ve))
	assert.Equal(t, "appointment not found", nf.Error())

	assert.True(t, IsInvalidArgument(ia))
	assert.False(t, IsInvalidArgument(errors.New("plain")))
}
