package models

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem es una línea (producto, variante, cantidad) del carrito. El
// precio es una foto al momento de agregar; al pagar se vuelve a leer el
// catálogo.
type CartItem struct {
	ProductID string  `json:"productId"`
	VariantID string  `json:"varianteId"`
	Name      string  `json:"nombre"`
	Price     float64 `json:"precio"`
	Quantity  int     `json:"cantidad"`
	ImageURL  string  `json:"imagen"`
}
