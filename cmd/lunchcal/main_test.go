package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMonth(t *testing.T) {
	year, month, err := splitMonth("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 1, month)

	year, month, err = splitMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 12, month)
}

func TestSplitMonthMalformed(t *testing.T) {
	for _, s := range []string{"", "2025", "abcd-ef", "2025-13-01", "2025-00"} {
		_, _, err := splitMonth(s)
		assert.Error(t, err, "input %q", s)
	}
}
