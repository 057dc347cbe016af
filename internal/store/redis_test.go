package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestRedis_Healthy(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr())
	defer r.Close()
	assert.True(t, r.Healthy(context.Background()))

	mr.Close()
	assert.False(t, r.Healthy(context.Background()))
}

func TestNilHandlesAreUnhealthy(t *testing.T) {
	var r *Redis
	var d *DB
	assert.False(t, r.Healthy(context.Background()))
	assert.False(t, d.Healthy(context.Background()))
	assert.NoError(t, r.Close())
	assert.NoError(t, d.Close())
}
