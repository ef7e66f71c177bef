package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to withdrawn", StatusPending, StatusWithdrawn, true},
		{"approved to withdrawn", StatusApproved, StatusWithdrawn, true},
		{"approved to rejected", StatusApproved, StatusRejected, false},
		{"approved to pending", StatusApproved, StatusPending, false},
		{"rejected is terminal", StatusRejected, StatusWithdrawn, false},
		{"withdrawn is terminal", StatusWithdrawn, StatusApproved, false},
		{"pending to pending", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusApproved))
	assert.True(t, IsTerminal(StatusRejected))
	assert.True(t, IsTerminal(StatusWithdrawn))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("Approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	_, err = ParseStatus("approved")
	assert.Error(t, err)

	_, err = ParseStatus("Cancelled")
	assert.Error(t, err)
}

func TestParseApplicationType(t *testing.T) {
	appType, err := ParseApplicationType("Ad Hoc")
	require.NoError(t, err)
	assert.Equal(t, TypeAdHoc, appType)

	_, err = ParseApplicationType("adhoc")
	assert.Error(t, err)
}
