package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBodyPassesThroughUTF8(t *testing.T) {
	body := []byte("Strain DSM 1234 was isolated from soil.")
	assert.Equal(t, string(body), DecodeBody(body))
}

func TestDecodeBodyHandlesEmptyInput(t *testing.T) {
	assert.Equal(t, "", DecodeBody(nil))
}
