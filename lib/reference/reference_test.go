package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrement(t *testing.T) {
	tests := []struct {
		previous string
		want     string
	}{
		{"2024-003", "2024-004"},
		{"INV-099", "INV-100"},
		{"2023-999", "2023-1000"},
		{"007", "008"},
		{"F2024/0009", "F2024/0010"},
	}
	for _, tt := range tests {
		t.Run(tt.previous, func(t *testing.T) {
			got, err := Increment(tt.previous)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncrementNoCounter(t *testing.T) {
	for _, previous := range []string{"A", "NOsuffix", "", "2024-"} {
		_, err := Increment(previous)
		assert.ErrorIs(t, err, ErrFormat, previous)
	}
}

func TestNext(t *testing.T) {
	got, err := Next("", 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024-001", got)

	got, err = Next("2024-010", 2025)
	require.NoError(t, err)
	assert.Equal(t, "2024-011", got)

	_, err = Next("nope", 2024)
	assert.ErrorIs(t, err, ErrFormat)
}
