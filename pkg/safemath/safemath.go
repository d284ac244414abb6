// Package safemath provides overflow-checked arithmetic on unsigned 64-bit
// amounts. Every helper is pure: it either returns the exact result or a
// coded error, never a wrapped value.
package safemath

import (
	"math"

	"github.com/payroll-lab/backend/pkg/errorx"
)

// BpsDenominator is the basis-point denominator (10000 bps = 100%).
const BpsDenominator uint64 = 10_000

func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errorx.New(errorx.MathOverflow, "Math overflow occurred")
	}

	return a + b, nil
}

func Sub(a, b uint64) (uint64, error) {
	if a < b {
		return 0, errorx.New(errorx.MathUnderflow, "Math underflow occurred")
	}

	return a - b, nil
}

func Mul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, errorx.New(errorx.MathOverflow, "Math overflow occurred")
	}

	return a * b, nil
}

func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, errorx.New(errorx.DivisionByZero, "Division by zero")
	}

	return a / b, nil
}

// CalculateFee returns the fee taken from amount at feeBps basis points,
// rounded down.
func CalculateFee(amount uint64, feeBps uint16) (uint64, error) {
	fee, err := Mul(amount, uint64(feeBps))
	if err != nil {
		return 0, err
	}

	return Div(fee, BpsDenominator)
}

// AmountAfterFee returns amount minus the fee at feeBps basis points.
func AmountAfterFee(amount uint64, feeBps uint16) (uint64, error) {
	fee, err := CalculateFee(amount, feeBps)
	if err != nil {
		return 0, err
	}

	return Sub(amount, fee)
}
