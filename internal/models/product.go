package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Tipos de producto del catálogo. Conjunto cerrado: el despacho sobre el
// tipo es siempre explícito, sin herencia abierta.
const (
	ProductTypeCarne  = "carne"
	ProductTypeAceite = "aceite"
)

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	SKU         string     `json:"sku" db:"sku"`
	Name        string     `json:"nombre" db:"name"`
	Description string     `json:"descripcion" db:"description"`
	Category    string     `json:"categoria" db:"category"`
	Type        string     `json:"tipo" db:"type"` // "carne" | "aceite" | ""
	BasePrice   float64    `json:"precioBase" db:"base_price"`
	DiscountPct float64    `json:"descuento" db:"discount_pct"`
	ImageURL    string     `json:"imagen" db:"image_url"`
	Active      bool       `json:"estado" db:"is_active"`

	// Variantes indexadas por id para lookup O(1); el caso "variante
	// inexistente" queda explícito en vez de un scan silencioso.
	Variants map[string]Variant `json:"variantes"`

	Meat *MeatAttributes `json:"infoCarne,omitempty"`
	Oil  *OilAttributes  `json:"infoAceite,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Variant es una configuración vendible de peso/unidad/precio.
type Variant struct {
	ID                gocql.UUID `json:"id" db:"variant_id"`
	SKU               string     `json:"sku" db:"sku"`
	Weight            float64    `json:"peso" db:"weight"` // en gramos
	Unit              string     `json:"unidad" db:"unit"`
	Price             float64    `json:"precio" db:"price"`
	Stock             int        `json:"stockDisponible" db:"stock_disponible"`
	LowStockThreshold int        `json:"umbralStockBajo" db:"low_stock_threshold"`
	UpdatedAt         time.Time  `json:"ultimaActualizacion" db:"updated_at"`
}

// MeatAttributes agrupa los atributos propios de los cortes de carne.
type MeatAttributes struct {
	Corte     string `json:"corte"`
	Origen    string `json:"origen"`
	Marmoleo  int    `json:"marmoleo"`
	TipoCarne string `json:"tipoCarne"`
}

// OilAttributes agrupa los atributos propios de los aceites.
type OilAttributes struct {
	TipoAceite string  `json:"tipoAceite"`
	Acidez     float64 `json:"acidez"`
	Envase     string  `json:"envase"`
}

// VariantByID retorna la variante pedida; ok=false si no existe.
func (p *Product) VariantByID(variantID string) (Variant, bool) {
	v, ok := p.Variants[variantID]
	return v, ok
}
