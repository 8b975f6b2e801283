package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToTwo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12.35, RoundToTwo(12.345))
	assert.Equal(t, 12.34, RoundToTwo(12.344))
	assert.Equal(t, -7.5, RoundToTwo(-7.499999))
	assert.Equal(t, 0.0, RoundToTwo(0.0001))
	assert.Equal(t, 33.33, RoundToTwo(100.0/3.0))
}

func TestPaginationOffset(t *testing.T) {
	t.Parallel()

	p := PaginationQuery{Page: 1, Limit: 20}
	assert.Equal(t, 0, p.Offset())

	p = PaginationQuery{Page: 3, Limit: 25}
	assert.Equal(t, 50, p.Offset())
}
