package redis_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	redisstore "github.com/gosuda/kanban/internal/store/redis"
)

func TestChangesChannel(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "changes:public", redisstore.ChangesChannel("public"))
	})

	t.Run("empty schema", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "changes:", redisstore.ChangesChannel(""))
	})

	t.Run("different schemas produce different channels", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, redisstore.ChangesChannel("public"), redisstore.ChangesChannel("archive"))
	})
}

func TestBoardChannel(t *testing.T) {
	t.Parallel()

	boardID := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		got := redisstore.BoardChannel(boardID)
		assert.Equal(t, "board:11111111-2222-3333-4444-555555555555", got)
	})

	t.Run("nil UUID", func(t *testing.T) {
		t.Parallel()

		got := redisstore.BoardChannel(uuid.Nil)
		assert.Equal(t, "board:00000000-0000-0000-0000-000000000000", got)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.BoardChannel(boardID)
		assert.True(t, strings.HasPrefix(got, "board:"), "expected prefix 'board:', got %q", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, redisstore.BoardChannel(boardID), redisstore.BoardChannel(boardID))
	})
}

func TestChannelFunctions_NoCollisionAcrossTypes(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	board := redisstore.BoardChannel(id)
	changes := redisstore.ChangesChannel(id.String())

	assert.NotEqual(t, board, changes, "board and changes channels must not collide")
}
