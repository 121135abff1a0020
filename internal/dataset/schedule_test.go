package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnnualAfter(t *testing.T) {
	release := time.July

	t.Run("never synced", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, AnnualAfter(now, nil, release))
	})

	t.Run("due after release", func(t *testing.T) {
		now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		last := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, AnnualAfter(now, &last, release))
	})

	t.Run("already synced this cycle", func(t *testing.T) {
		now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		last := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
		assert.False(t, AnnualAfter(now, &last, release))
	})

	t.Run("before release", func(t *testing.T) {
		now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		assert.False(t, AnnualAfter(now, &last, release))
	})
}
