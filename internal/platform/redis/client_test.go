package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardpost/internal/sentinel"
)

func TestNewWithoutURLDisablesRedis(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close() //nolint:errcheck // test cleanup

	assert.NoError(t, c.Health(context.Background()))

	mr.Close()
	err = c.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
