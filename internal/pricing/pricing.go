// Package pricing derives a jewellery sale price from weight, metal rate,
// making charge and GST.
//
// The final amount is always rounded up to the next whole currency unit and
// is never stored; callers recompute it on every read from the current rate
// and tax.
package pricing

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidArgument marks malformed or negative numeric input.
var ErrInvalidArgument = errors.New("invalid argument")

var maxPrice = decimal.NewFromInt(math.MaxInt64)

// Quote is the full breakdown behind a computed price.
type Quote struct {
	Weight       decimal.Decimal
	Rate         decimal.Decimal
	MakingCharge decimal.Decimal
	GSTPercent   decimal.Decimal

	MetalValue  decimal.Decimal
	MakingValue decimal.Decimal
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Final       decimal.Decimal
	Price       int64
}

// ComputePrice returns ceil((w*rate + w*making) * (1 + gst/100)).
func ComputePrice(weight, ratePerUnit, makingChargePerUnit, gstPercent decimal.Decimal) (int64, error) {
	q, err := Breakdown(weight, ratePerUnit, makingChargePerUnit, gstPercent)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// Breakdown computes the price and keeps every intermediate amount.
func Breakdown(weight, ratePerUnit, makingChargePerUnit, gstPercent decimal.Decimal) (Quote, error) {
	for _, arg := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"weight", weight},
		{"rate", ratePerUnit},
		{"making_charge", makingChargePerUnit},
		{"gst_percent", gstPercent},
	} {
		if err := NonNegative(arg.name, arg.value); err != nil {
			return Quote{}, err
		}
	}

	metal := weight.Mul(ratePerUnit)
	making := weight.Mul(makingChargePerUnit)
	subtotal := metal.Add(making)
	// Shift(-2) divides by 100 without the rounding Div applies.
	tax := subtotal.Mul(gstPercent).Shift(-2)
	final := subtotal.Add(tax)
	price := final.Ceil()
	if price.GreaterThan(maxPrice) {
		return Quote{}, errors.Wrapf(ErrInvalidArgument, "price %s out of range", price.String())
	}

	return Quote{
		Weight:       weight,
		Rate:         ratePerUnit,
		MakingCharge: makingChargePerUnit,
		GSTPercent:   gstPercent,
		MetalValue:   metal,
		MakingValue:  making,
		Subtotal:     subtotal,
		TaxAmount:    tax,
		Final:        final,
		Price:        price.IntPart(),
	}, nil
}

// ParseDecimal parses user supplied numeric text. Empty or non numeric input
// is reported as ErrInvalidArgument; nothing is coerced.
func ParseDecimal(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, errors.Wrapf(ErrInvalidArgument, "%s is required", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidArgument, "%s: %q is not a number", field, raw)
	}
	return d, nil
}

// ParseNonNegative is ParseDecimal plus the non negative check.
func ParseNonNegative(field, raw string) (decimal.Decimal, error) {
	d, err := ParseDecimal(field, raw)
	if err != nil {
		return d, err
	}
	return d, NonNegative(field, d)
}

func NonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return errors.Wrapf(ErrInvalidArgument, "%s must not be negative, got %s", field, d)
	}
	return nil
}
