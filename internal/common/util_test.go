package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(16)
	b := GenerateRandByteArray(16)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(8)
	require.NoError(t, err)
	assert.Len(t, s, 16)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte{1, 2, 3}
	WipeByteArray(b)
	assert.Equal(t, []byte{0, 0, 0}, b)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
