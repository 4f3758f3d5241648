package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSealOpenValue(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	sealed := sealValue([]byte("42"), time.Minute, now)
	assert.NotEqual(t, []byte("42"), sealed)

	v, live := openValue(sealed, now.Add(59*time.Second))
	assert.True(t, live)
	assert.Equal(t, []byte("42"), v)

	_, live = openValue(sealed, now.Add(time.Minute))
	assert.False(t, live)
}

func TestOpenValue_Plain(t *testing.T) {
	now := time.Now()

	assert.Equal(t, []byte("raw"), sealValue([]byte("raw"), 0, now))

	v, live := openValue([]byte("raw"), now)
	assert.True(t, live)
	assert.Equal(t, []byte("raw"), v)
}
