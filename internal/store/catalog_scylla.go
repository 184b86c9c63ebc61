package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"hacienda_backend/internal/database"
	"hacienda_backend/internal/models"
)

// ScyllaCatalog implementa CatalogStore e InventoryStore sobre el keyspace
// de catálogo.
type ScyllaCatalog struct{}

func NewScyllaCatalog() *ScyllaCatalog { return &ScyllaCatalog{} }

const defaultLowStockThreshold = 10

func (s *ScyllaCatalog) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return nil, ErrNotFound
	}

	session, err := database.GetCatalogoSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	var corte, origen, tipoCarne, tipoAceite, envase string
	var marmoleo int
	var acidez float64

	err = session.Query(`SELECT product_id, sku, name, description, category, type, base_price,
			discount_pct, image_url, is_active, corte, origen, marmoleo, tipo_carne,
			tipo_aceite, acidez, envase, created_at, updated_at
		FROM products WHERE product_id = ?`, pid).WithContext(ctx).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category, &p.Type, &p.BasePrice,
		&p.DiscountPct, &p.ImageURL, &p.Active, &corte, &origen, &marmoleo, &tipoCarne,
		&tipoAceite, &acidez, &envase, &p.CreatedAt, &p.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Despacho explícito por tipo: sólo carne o aceite llevan atributos.
	switch p.Type {
	case models.ProductTypeCarne:
		p.Meat = &models.MeatAttributes{Corte: corte, Origen: origen, Marmoleo: marmoleo, TipoCarne: tipoCarne}
	case models.ProductTypeAceite:
		p.Oil = &models.OilAttributes{TipoAceite: tipoAceite, Acidez: acidez, Envase: envase}
	}

	p.Variants = make(map[string]models.Variant)
	iter := session.Query(`SELECT variant_id, sku, weight, unit, price, stock_disponible,
			low_stock_threshold, updated_at
		FROM product_variants WHERE product_id = ?`, pid).WithContext(ctx).Iter()

	var v models.Variant
	for iter.Scan(&v.ID, &v.SKU, &v.Weight, &v.Unit, &v.Price, &v.Stock,
		&v.LowStockThreshold, &v.UpdatedAt) {
		p.Variants[v.ID.String()] = v
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &p, nil
}

// DecrementStock hace el descuento condicional con una transacción ligera:
// lee el stock actual y aplica un CAS sobre el valor leído. Dos checkouts
// concurrentes sobre la última unidad no pueden ganar los dos.
func (s *ScyllaCatalog) DecrementStock(ctx context.Context, productID, variantID string, qty int, orderID *gocql.UUID, userID string) (bool, int, error) {
	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return false, 0, ErrNotFound
	}
	vid, err := gocql.ParseUUID(variantID)
	if err != nil {
		return false, 0, ErrNotFound
	}

	session, err := database.GetCatalogoSession()
	if err != nil {
		return false, 0, err
	}

	var current int
	if err := session.Query(`SELECT stock_disponible FROM product_variants
			WHERE product_id = ? AND variant_id = ?`, pid, vid).
		WithContext(ctx).Scan(&current); err != nil {
		if err == gocql.ErrNotFound {
			return false, 0, ErrNotFound
		}
		return false, 0, err
	}

	for attempt := 0; attempt < 3; attempt++ {
		if current < qty {
			return false, current, nil
		}

		applied, err := session.Query(`UPDATE product_variants
				SET stock_disponible = ?, updated_at = ?
				WHERE product_id = ? AND variant_id = ?
				IF stock_disponible = ?`,
			current-qty, time.Now(), pid, vid, current).
			WithContext(ctx).ScanCAS(&current)
		if err != nil {
			return false, 0, err
		}
		if applied {
			s.recordMovement(ctx, session, pid, vid, models.MovementVenta, qty,
				current, current-qty, "venta checkout", orderID, userID)
			s.checkLowStockAlert(ctx, session, pid, vid, current-qty)
			return true, current - qty, nil
		}
		// Otro checkout movió el stock entre la lectura y el CAS;
		// ScanCAS dejó el valor vigente en current.
	}

	// Se agotaron los reintentos con stock suficiente: perdimos el CAS
	// contra otros checkouts, no contra la falta de stock.
	if current >= qty {
		return false, current, ErrStockContention
	}
	return false, current, nil
}

func (s *ScyllaCatalog) RestoreStock(ctx context.Context, productID, variantID string, qty int, orderID *gocql.UUID, userID string) error {
	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return ErrNotFound
	}
	vid, err := gocql.ParseUUID(variantID)
	if err != nil {
		return ErrNotFound
	}

	session, err := database.GetCatalogoSession()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		var current int
		if err := session.Query(`SELECT stock_disponible FROM product_variants
				WHERE product_id = ? AND variant_id = ?`, pid, vid).
			WithContext(ctx).Scan(&current); err != nil {
			return err
		}

		applied, err := session.Query(`UPDATE product_variants
				SET stock_disponible = ?, updated_at = ?
				WHERE product_id = ? AND variant_id = ?
				IF stock_disponible = ?`,
			current+qty, time.Now(), pid, vid, current).
			WithContext(ctx).ScanCAS(&current)
		if err != nil {
			return err
		}
		if applied {
			s.recordMovement(ctx, session, pid, vid, models.MovementDevolucion, qty,
				current, current+qty, "compensación checkout", orderID, userID)
			return nil
		}
	}

	return fmt.Errorf("no se pudo restaurar stock de la variante %s", variantID)
}

// AdjustStock aplica reposición (delta) o ajuste (valor absoluto).
func (s *ScyllaCatalog) AdjustStock(ctx context.Context, productID, variantID, movType string, qty int, reason, userID string) (*models.StockMovement, error) {
	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	vid, err := gocql.ParseUUID(variantID)
	if err != nil {
		return nil, ErrNotFound
	}

	session, err := database.GetCatalogoSession()
	if err != nil {
		return nil, err
	}

	var current int
	if err := session.Query(`SELECT stock_disponible FROM product_variants
			WHERE product_id = ? AND variant_id = ?`, pid, vid).
		WithContext(ctx).Scan(&current); err != nil {
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var newStock int
	switch movType {
	case models.MovementReposicion:
		newStock = current + qty
	case models.MovementAjuste:
		newStock = qty
	default:
		return nil, fmt.Errorf("tipo de movimiento inválido: %s", movType)
	}
	if newStock < 0 {
		return nil, fmt.Errorf("el stock no puede quedar negativo")
	}

	if err := session.Query(`UPDATE product_variants SET stock_disponible = ?, updated_at = ?
			WHERE product_id = ? AND variant_id = ?`,
		newStock, time.Now(), pid, vid).WithContext(ctx).Exec(); err != nil {
		return nil, err
	}

	mov := s.recordMovement(ctx, session, pid, vid, movType, qty, current, newStock, reason, nil, userID)
	s.checkLowStockAlert(ctx, session, pid, vid, newStock)

	return mov, nil
}

func (s *ScyllaCatalog) ListMovements(ctx context.Context, productID string, limit int) ([]models.StockMovement, error) {
	session, err := database.GetCatalogoSession()
	if err != nil {
		return nil, err
	}

	var query string
	var args []interface{}

	if productID != "" {
		pid, err := gocql.ParseUUID(productID)
		if err != nil {
			return nil, ErrNotFound
		}
		query = `SELECT id, product_id, variant_id, type, quantity, prev_stock, new_stock,
				reason, order_id, user_id, created_at
			FROM stock_movements WHERE product_id = ? LIMIT ?`
		args = []interface{}{pid, limit}
	} else {
		query = `SELECT id, product_id, variant_id, type, quantity, prev_stock, new_stock,
				reason, order_id, user_id, created_at
			FROM stock_movements LIMIT ?`
		args = []interface{}{limit}
	}

	iter := session.Query(query, args...).WithContext(ctx).Iter()
	defer iter.Close()

	var movements []models.StockMovement
	var m models.StockMovement
	for iter.Scan(&m.ID, &m.ProductID, &m.VariantID, &m.Type, &m.Quantity,
		&m.PrevStock, &m.NewStock, &m.Reason, &m.OrderID, &m.UserID, &m.CreatedAt) {
		movements = append(movements, m)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return movements, nil
}

func (s *ScyllaCatalog) ListAlerts(ctx context.Context) ([]models.StockAlert, error) {
	session, err := database.GetCatalogoSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT id, product_id, variant_id, product_name, current_stock,
			threshold_stock, alert_type, is_resolved, created_at
		FROM stock_alerts WHERE is_resolved = false ALLOW FILTERING`).WithContext(ctx).Iter()
	defer iter.Close()

	var alerts []models.StockAlert
	var a models.StockAlert
	for iter.Scan(&a.ID, &a.ProductID, &a.VariantID, &a.ProductName, &a.CurrentStock,
		&a.ThresholdStock, &a.AlertType, &a.IsResolved, &a.CreatedAt) {
		alerts = append(alerts, a)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return alerts, nil
}

func (s *ScyllaCatalog) ResolveAlert(ctx context.Context, alertID string) error {
	aid, err := gocql.ParseUUID(alertID)
	if err != nil {
		return ErrNotFound
	}

	session, err := database.GetCatalogoSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE stock_alerts SET is_resolved = true, resolved_at = ?
			WHERE id = ?`, time.Now(), aid).WithContext(ctx).Exec()
}

func (s *ScyllaCatalog) recordMovement(ctx context.Context, session *gocql.Session, pid, vid gocql.UUID, movType string, qty, prev, next int, reason string, orderID *gocql.UUID, userID string) *models.StockMovement {
	mov := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: pid,
		VariantID: vid,
		Type:      movType,
		Quantity:  qty,
		PrevStock: prev,
		NewStock:  next,
		Reason:    reason,
		OrderID:   orderID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`INSERT INTO stock_movements (
			id, product_id, variant_id, type, quantity, prev_stock, new_stock,
			reason, order_id, user_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mov.ID, mov.ProductID, mov.VariantID, mov.Type, mov.Quantity, mov.PrevStock,
		mov.NewStock, mov.Reason, mov.OrderID, mov.UserID, mov.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Error registrando movimiento de stock: %v", err)
	}

	return &mov
}

// checkLowStockAlert crea una alerta si la variante quedó bajo el umbral y
// no hay ya una alerta sin resolver.
func (s *ScyllaCatalog) checkLowStockAlert(ctx context.Context, session *gocql.Session, pid, vid gocql.UUID, currentStock int) {
	var threshold int
	var productName string
	if err := session.Query(`SELECT low_stock_threshold FROM product_variants
			WHERE product_id = ? AND variant_id = ?`, pid, vid).
		WithContext(ctx).Scan(&threshold); err != nil {
		return
	}
	if threshold == 0 {
		threshold = defaultLowStockThreshold
	}

	var alertType string
	switch {
	case currentStock == 0:
		alertType = models.AlertSinStock
	case currentStock <= threshold:
		alertType = models.AlertStockBajo
	default:
		return
	}

	var existingID gocql.UUID
	if err := session.Query(`SELECT id FROM stock_alerts
			WHERE product_id = ? AND variant_id = ? AND is_resolved = false
			LIMIT 1 ALLOW FILTERING`, pid, vid).
		WithContext(ctx).Scan(&existingID); err == nil {
		return // ya hay una alerta abierta
	}

	if err := session.Query(`SELECT name FROM products WHERE product_id = ?`, pid).
		WithContext(ctx).Scan(&productName); err != nil {
		productName = pid.String()
	}

	if err := session.Query(`INSERT INTO stock_alerts (
			id, product_id, variant_id, product_name, current_stock,
			threshold_stock, alert_type, is_resolved, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, false, ?)`,
		gocql.TimeUUID(), pid, vid, productName, currentStock, threshold,
		alertType, time.Now()).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Error creando alerta de stock: %v", err)
	} else {
		log.Printf("🚨 Alerta de stock para %s: %s (stock %d)", productName, alertType, currentStock)
	}
}
