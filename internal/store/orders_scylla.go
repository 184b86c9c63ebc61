package store

import (
	"context"

	"github.com/gocql/gocql"

	"hacienda_backend/internal/database"
	"hacienda_backend/internal/models"
)

// ScyllaOrders implementa OrderStore sobre el keyspace de pedidos. Los
// detalles se insertan antes que la fila del pedido: un corte a mitad de
// camino deja detalles huérfanos invisibles, nunca un pedido sin detalles.
type ScyllaOrders struct{}

func NewScyllaOrders() *ScyllaOrders { return &ScyllaOrders{} }

const orderColumns = `order_id, user_id, status, created_at, subtotal, shipping_cost,
	payment_commission, total, street, number, city, region, zip_code, reference,
	carrier_id, carrier_name, shipping_method_name, payment_method_id, payment_method_name,
	payment_status, payment_provider, payment_transaction_id, payment_amount,
	payment_processed_at, estimated_delivery, quotation_id`

func (s *ScyllaOrders) Insert(ctx context.Context, order *models.Order, details []models.OrderDetail) error {
	session, err := database.GetPedidosSession()
	if err != nil {
		return err
	}

	// Detalles en un batch: misma partición (order_id).
	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, d := range details {
		batch.Query(`INSERT INTO order_details (
				order_id, detail_id, product_id, quantity, variant_id, variant_sku,
				variant_weight, variant_unit, base_price, discount_pct, final_price,
				subtotal, product_name, product_category, product_type, product_image
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.OrderID, d.DetailID, d.ProductID, d.Quantity, d.VariantID, d.VariantSKU,
			d.VariantWeight, d.VariantUnit, d.BasePrice, d.DiscountPct, d.FinalPrice,
			d.Subtotal, d.ProductName, d.ProductCategory, d.ProductType, d.ProductImage)
	}
	if err := session.ExecuteBatch(batch); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders (`+orderColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Status, order.CreatedAt, order.Subtotal,
		order.ShippingCost, order.PaymentCommission, order.Total,
		order.ShippingAddress.Street, order.ShippingAddress.Number,
		order.ShippingAddress.City, order.ShippingAddress.Region,
		order.ShippingAddress.ZipCode, order.ShippingAddress.Reference,
		order.CarrierID, order.CarrierName, order.ShippingMethodName,
		order.PaymentMethodID, order.PaymentMethodName,
		order.Payment.Status, order.Payment.Provider, order.Payment.TransactionID,
		order.Payment.Amount, order.Payment.ProcessedAt,
		order.EstimatedDelivery, order.QuotationID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	// Tablas de consulta denormalizadas.
	if err := session.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id)
			VALUES (?, ?, ?)`, order.UserID, order.CreatedAt, order.ID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	if order.Payment.TransactionID != "" {
		if err := session.Query(`INSERT INTO orders_by_transaction (provider, transaction_id, order_id)
				VALUES (?, ?, ?)`, order.Payment.Provider, order.Payment.TransactionID, order.ID).
			WithContext(ctx).Exec(); err != nil {
			return err
		}
	}

	return nil
}

// Delete revierte un pedido a medias, índices denormalizados incluidos:
// un pedido compensado no puede quedar visible por orders_by_user ni por
// orders_by_transaction.
func (s *ScyllaOrders) Delete(ctx context.Context, orderID gocql.UUID) error {
	session, err := database.GetPedidosSession()
	if err != nil {
		return err
	}

	// Las claves de los índices salen de la fila principal.
	order, err := scanOrder(session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID).WithContext(ctx))
	if err != nil && err != ErrNotFound {
		return err
	}

	if err := session.Query(`DELETE FROM order_details WHERE order_id = ?`, orderID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	if order != nil {
		if err := session.Query(`DELETE FROM orders_by_user
				WHERE user_id = ? AND created_at = ? AND order_id = ?`,
			order.UserID, order.CreatedAt, orderID).WithContext(ctx).Exec(); err != nil {
			return err
		}
		if order.Payment.TransactionID != "" {
			if err := session.Query(`DELETE FROM orders_by_transaction
					WHERE provider = ? AND transaction_id = ?`,
				order.Payment.Provider, order.Payment.TransactionID).
				WithContext(ctx).Exec(); err != nil {
				return err
			}
		}
	}

	return session.Query(`DELETE FROM orders WHERE order_id = ?`, orderID).
		WithContext(ctx).Exec()
}

func (s *ScyllaOrders) Get(ctx context.Context, orderID string) (*models.Order, []models.OrderDetail, error) {
	oid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return nil, nil, err
	}

	order, err := scanOrder(session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, oid).WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	details, err := s.details(ctx, session, oid)
	if err != nil {
		return nil, nil, err
	}

	return order, details, nil
}

func (s *ScyllaOrders) details(ctx context.Context, session *gocql.Session, oid gocql.UUID) ([]models.OrderDetail, error) {
	iter := session.Query(`SELECT order_id, detail_id, product_id, quantity, variant_id,
			variant_sku, variant_weight, variant_unit, base_price, discount_pct,
			final_price, subtotal, product_name, product_category, product_type, product_image
		FROM order_details WHERE order_id = ?`, oid).WithContext(ctx).Iter()

	var details []models.OrderDetail
	var d models.OrderDetail
	for iter.Scan(&d.OrderID, &d.DetailID, &d.ProductID, &d.Quantity, &d.VariantID,
		&d.VariantSKU, &d.VariantWeight, &d.VariantUnit, &d.BasePrice, &d.DiscountPct,
		&d.FinalPrice, &d.Subtotal, &d.ProductName, &d.ProductCategory, &d.ProductType,
		&d.ProductImage) {
		details = append(details, d)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *ScyllaOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetPedidosSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	var orders []models.Order
	for _, oid := range ids {
		order, err := scanOrder(session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, oid).WithContext(ctx))
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

func (s *ScyllaOrders) UpdateStatus(ctx context.Context, orderID, status string) error {
	oid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE orders SET status = ? WHERE order_id = ?`, status, oid).
		WithContext(ctx).Exec()
}

func (s *ScyllaOrders) UpdatePayment(ctx context.Context, orderID string, payment models.PaymentInfo, orderStatus string) error {
	oid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE orders SET status = ?, payment_status = ?,
			payment_provider = ?, payment_transaction_id = ?, payment_amount = ?,
			payment_processed_at = ?
		WHERE order_id = ?`,
		orderStatus, payment.Status, payment.Provider, payment.TransactionID,
		payment.Amount, payment.ProcessedAt, oid).WithContext(ctx).Exec()
}

func (s *ScyllaOrders) GetByTransaction(ctx context.Context, provider, transactionID string) (*models.Order, error) {
	session, err := database.GetPedidosSession()
	if err != nil {
		return nil, err
	}

	var oid gocql.UUID
	err = session.Query(`SELECT order_id FROM orders_by_transaction
			WHERE provider = ? AND transaction_id = ?`, provider, transactionID).
		WithContext(ctx).Scan(&oid)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return scanOrder(session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, oid).WithContext(ctx))
}

func scanOrder(q *gocql.Query) (*models.Order, error) {
	var o models.Order
	err := q.Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt, &o.Subtotal,
		&o.ShippingCost, &o.PaymentCommission, &o.Total,
		&o.ShippingAddress.Street, &o.ShippingAddress.Number,
		&o.ShippingAddress.City, &o.ShippingAddress.Region,
		&o.ShippingAddress.ZipCode, &o.ShippingAddress.Reference,
		&o.CarrierID, &o.CarrierName, &o.ShippingMethodName,
		&o.PaymentMethodID, &o.PaymentMethodName,
		&o.Payment.Status, &o.Payment.Provider, &o.Payment.TransactionID,
		&o.Payment.Amount, &o.Payment.ProcessedAt,
		&o.EstimatedDelivery, &o.QuotationID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
