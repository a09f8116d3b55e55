package ingestion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueConstructors(t *testing.T) {
	n := NewNumericValue(72.5)
	assert.True(t, n.IsNumeric())
	assert.Equal(t, 72.5, n.AsFloat64())
	assert.Equal(t, "72.5", n.String())

	s := NewStringValue("Yes")
	assert.True(t, s.IsString())
	assert.Equal(t, "Yes", s.AsString())
	assert.True(t, math.IsNaN(s.AsFloat64()))

	assert.True(t, NewStringValue("").IsMissing)
	assert.True(t, NewNumericValue(math.NaN()).IsMissing)
	assert.Equal(t, "<missing>", NewMissingValue().String())
}
