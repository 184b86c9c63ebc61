// Package pricing calcula precios de pedidos y cotizaciones. Son funciones
// puras: mismo resultado byte a byte al cotizar, al crear el pedido y al
// convertir una cotización.
package pricing

import (
	"regexp"
	"strconv"
	"time"

	"hacienda_backend/internal/models"
)

// DefaultDeliveryDays se usa cuando el texto de tiempo de entrega del
// método de envío no trae ningún número.
const DefaultDeliveryDays = 7

// Line es una línea a cotizar: producto + variante + cantidad.
type Line struct {
	Product  models.Product
	Variant  models.Variant
	Quantity int
}

// PricedLine es el desglose congelado de una línea.
type PricedLine struct {
	Line
	BasePrice   float64
	DiscountPct float64
	FinalPrice  float64
	Subtotal    float64
}

// Breakdown es el resultado completo de cotizar un carrito.
type Breakdown struct {
	Lines             []PricedLine
	Subtotal          float64
	TotalWeightKg     float64
	ShippingCost      float64
	PaymentCommission float64
	Total             float64
	EstimatedDelivery time.Time
}

// FinalPrice aplica el descuento porcentual al precio base.
func FinalPrice(basePrice, discountPct float64) float64 {
	return basePrice * (1 - discountPct/100)
}

// PriceLine congela el desglose de precio de una línea.
func PriceLine(l Line) PricedLine {
	base := l.Variant.Price
	final := FinalPrice(base, l.Product.DiscountPct)
	return PricedLine{
		Line:        l,
		BasePrice:   base,
		DiscountPct: l.Product.DiscountPct,
		FinalPrice:  final,
		Subtotal:    final * float64(l.Quantity),
	}
}

// TotalWeightKg suma el peso físico de las líneas convirtiendo gramos a
// kilos. Las variantes sin peso no aportan.
func TotalWeightKg(lines []PricedLine) float64 {
	var grams float64
	for _, l := range lines {
		if l.Variant.Weight > 0 {
			grams += l.Variant.Weight * float64(l.Quantity)
		}
	}
	return grams / 1000
}

// ShippingCost calcula el costo de envío: base + kg * extra, forzado a 0
// si el subtotal alcanza el umbral de envío gratis (cuando hay umbral).
func ShippingCost(subtotal, totalWeightKg float64, m models.ShippingSubMethod) float64 {
	if m.FreeShippingThreshold > 0 && subtotal >= m.FreeShippingThreshold {
		return 0
	}
	return m.BaseCost + totalWeightKg*m.ExtraCostPerKg
}

// Commission calcula la comisión del medio de pago sobre subtotal + envío.
func Commission(subtotal, shippingCost float64, pm models.PaymentMethod) float64 {
	return (subtotal + shippingCost) * pm.CommissionPct / 100
}

var firstInt = regexp.MustCompile(`\d+`)

// DeliveryDays extrae el primer entero del texto de tiempo de entrega
// ("3-5 días hábiles" → 3); sin número parseable retorna el default.
func DeliveryDays(deliveryTime string) int {
	if m := firstInt.FindString(deliveryTime); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	return DefaultDeliveryDays
}

// Price cotiza un carrito completo contra un método de envío y un medio de
// pago. now ancla la fecha estimada de entrega.
func Price(lines []Line, shipping models.ShippingSubMethod, payment models.PaymentMethod, now time.Time) Breakdown {
	b := Breakdown{Lines: make([]PricedLine, 0, len(lines))}

	for _, l := range lines {
		pl := PriceLine(l)
		b.Lines = append(b.Lines, pl)
		b.Subtotal += pl.Subtotal
	}

	b.TotalWeightKg = TotalWeightKg(b.Lines)
	b.ShippingCost = ShippingCost(b.Subtotal, b.TotalWeightKg, shipping)
	b.PaymentCommission = Commission(b.Subtotal, b.ShippingCost, payment)
	b.Total = b.Subtotal + b.ShippingCost + b.PaymentCommission
	b.EstimatedDelivery = now.AddDate(0, 0, DeliveryDays(shipping.DeliveryTime))

	return b
}
