package service

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// RoundHalfEven rounds the exact binary value of v to places decimals, ties to even.
// 0.665 is stored as 0.66500000000000003552..., so it rounds to 0.67.
func RoundHalfEven(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r := new(big.Rat).SetFloat64(v)
	// 分母为 2^k 时 k 位小数即可精确表示
	exact := decimal.NewFromBigRat(r, int32(r.Denom().BitLen()-1))
	f, _ := exact.RoundBank(places).Float64()
	return f
}
