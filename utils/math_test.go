package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateEven_ExactDivision(t *testing.T) {
	shares := AllocateEven(125.50, 4)

	assert.Equal(t, []float64{31.375, 31.375, 31.375, 31.375}, shares)
}

func TestAllocateEven_RemainderGoesToFirstPositions(t *testing.T) {
	shares := AllocateEven(10.00, 3)

	assert.Equal(t, []float64{3.334, 3.333, 3.333}, shares)

	var sum float64
	for _, share := range shares {
		sum += share
	}
	assert.InDelta(t, 10.00, sum, 1e-9)
}

func TestAllocateEven_SumsBackToTotal(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 11} {
		shares := AllocateEven(99.97, n)

		var sum float64
		for _, share := range shares {
			sum += share
		}
		assert.InDelta(t, 99.97, sum, 1e-9, "split across %d members", n)
	}
}

func TestAllocateEven_InvalidCount(t *testing.T) {
	assert.Nil(t, AllocateEven(10, 0))
	assert.Nil(t, AllocateEven(10, -1))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 10.57, Round(10.566))
	assert.Equal(t, 10.56, Round(10.564))
}

func TestRoundMilli(t *testing.T) {
	assert.Equal(t, 31.375, RoundMilli(31.375))
	assert.Equal(t, 0.333, RoundMilli(1.0/3))
}
