package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	payload := []byte(strings.Repeat(`{"type":"entry","in-reply-to":["https://alice.example/post/1"]}`, 20))

	for _, name := range []string{"nop", "gzip", "brotli", "lz4"} {
		t.Run(name, func(t *testing.T) {
			c, err := New(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			encoded, err := c.Encode(payload)
			require.NoError(t, err)

			decoded, err := c.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("zstd")
	assert.Error(t, err)
}
