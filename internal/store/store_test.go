package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorLiteral(t *testing.T) {
	assert.Equal(t, "[0.5,-1,0.25]", vectorLiteral([]float32{0.5, -1, 0.25}))
	assert.Equal(t, "[0]", vectorLiteral([]float32{0}))
	assert.Equal(t, "[]", vectorLiteral(nil))
}
