package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/credscore/internal/domain/service"
)

func TestRoundHalfEven(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		places int32
		want   float64
	}{
		{"exact tie goes to even", 0.125, 2, 0.12},
		{"integer tie goes to even", 2.5, 0, 2},
		{"stored above the tie", 0.665, 2, 0.67},
		{"stored below the tie", 0.015, 2, 0.01},
		{"mean above the tie", 536.565, 2, 536.57},
		{"mean below the tie", 536.515, 2, 536.51},
		{"already short", 536.67, 2, 536.67},
		{"zero", 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.RoundHalfEven(tt.in, tt.places))
		})
	}
}

func TestRoundHalfEven_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(service.RoundHalfEven(math.NaN(), 2)))
	assert.True(t, math.IsInf(service.RoundHalfEven(math.Inf(1), 2), 1))
}
