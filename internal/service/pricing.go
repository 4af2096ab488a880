package service

// All money is int64 minor units (cents). The service fee is a basis-point
// rate on the subtotal, rounded half-up to the nearest cent.

type PricingLine struct {
	UnitPriceCents int64
	Quantity       int
}

func Subtotal(lines []PricingLine) int64 {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}
	return subtotal
}

func ServiceFee(subtotalCents, feeBasisPoints int64) int64 {
	return (subtotalCents*feeBasisPoints + 5000) / 10000
}
