package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/cfind/internal/ref"
)

func TestBaseTypeIsPrimitive(t *testing.T) {
	primitive := Member{BaseType: ref.None()}
	assert.True(t, primitive.BaseTypeIsPrimitive())

	aggregate := Member{BaseType: ref.FromDurable(1)}
	assert.False(t, aggregate.BaseTypeIsPrimitive())
}
