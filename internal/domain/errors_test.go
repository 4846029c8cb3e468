package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/kanban/internal/domain"
)

var sentinels = []struct {
	name string
	err  error
}{
	{"ErrNotFound", domain.ErrNotFound},
	{"ErrTitleTooShort", domain.ErrTitleTooShort},
	{"ErrInvalidEvent", domain.ErrInvalidEvent},
}

func TestSentinelErrors_Distinct(t *testing.T) {
	t.Parallel()

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}

			t.Run(a.name+"!="+b.name, func(t *testing.T) {
				t.Parallel()

				assert.NotErrorIs(t, a.err, b.err, "sentinel errors must be distinct")
			})
		}
	}
}

func TestSentinelErrors_WrappingPreservesIdentity(t *testing.T) {
	t.Parallel()

	for _, tt := range sentinels {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("boardRepo.GetByID: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.err)

			doubleWrapped := fmt.Errorf("boardRepo.Snapshot: %w", wrapped)
			require.ErrorIs(t, doubleWrapped, tt.err)
		})
	}
}

// Wire values are shared with the change feed and must not drift.
func TestChangeOpConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.OpInsert, domain.ChangeOp("insert"))
	assert.Equal(t, domain.OpDelete, domain.ChangeOp("delete"))
}
