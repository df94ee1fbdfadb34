package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	t.Parallel()

	t.Run("exact multiple", func(t *testing.T) {
		p := NewPagination(1, 10, 30)
		require.Equal(t, 3, p.TotalPages)
	})

	t.Run("remainder rounds up", func(t *testing.T) {
		p := NewPagination(2, 10, 31)
		require.Equal(t, 4, p.TotalPages)
		require.Equal(t, 2, p.Page)
		require.Equal(t, 31, p.Total)
	})

	t.Run("empty result", func(t *testing.T) {
		p := NewPagination(1, 10, 0)
		require.Equal(t, 0, p.TotalPages)
	})

	t.Run("out of range inputs are normalized", func(t *testing.T) {
		p := NewPagination(0, 0, 5)
		require.Equal(t, 1, p.Page)
		require.Equal(t, 10, p.Limit)
		require.Equal(t, 1, p.TotalPages)
	})

	t.Run("single item", func(t *testing.T) {
		p := NewPagination(1, 10, 1)
		require.Equal(t, 1, p.TotalPages)
	})
}
