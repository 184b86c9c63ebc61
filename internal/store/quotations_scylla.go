package store

import (
	"context"

	"github.com/gocql/gocql"

	"hacienda_backend/internal/database"
	"hacienda_backend/internal/models"
)

// ScyllaQuotations implementa QuotationStore sobre el keyspace de pedidos.
type ScyllaQuotations struct{}

func NewScyllaQuotations() *ScyllaQuotations { return &ScyllaQuotations{} }

const quotationColumns = `quotation_id, user_id, status, created_at, valid_until, subtotal,
	shipping_cost, payment_commission, total, street, number, city, region, zip_code,
	reference, carrier_id, carrier_name, shipping_method_name, payment_method_id,
	payment_method_name, estimated_delivery, order_id`

func (s *ScyllaQuotations) Insert(ctx context.Context, q *models.Quotation, details []models.QuotationDetail) error {
	session, err := database.GetPedidosSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, d := range details {
		batch.Query(`INSERT INTO quotation_details (
				quotation_id, detail_id, product_id, quantity, variant_id, variant_sku,
				variant_weight, variant_unit, base_price, discount_pct, final_price,
				subtotal, product_name, product_category, product_type, product_image
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.QuotationID, d.DetailID, d.ProductID, d.Quantity, d.VariantID, d.VariantSKU,
			d.VariantWeight, d.VariantUnit, d.BasePrice, d.DiscountPct, d.FinalPrice,
			d.Subtotal, d.ProductName, d.ProductCategory, d.ProductType, d.ProductImage)
	}
	if err := session.ExecuteBatch(batch); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO quotations (`+quotationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.UserID, q.Status, q.CreatedAt, q.ValidUntil, q.Subtotal,
		q.ShippingCost, q.PaymentCommission, q.Total,
		q.ShippingAddress.Street, q.ShippingAddress.Number, q.ShippingAddress.City,
		q.ShippingAddress.Region, q.ShippingAddress.ZipCode, q.ShippingAddress.Reference,
		q.CarrierID, q.CarrierName, q.ShippingMethodName,
		q.PaymentMethodID, q.PaymentMethodName, q.EstimatedDelivery, q.OrderID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO quotations_by_user (user_id, created_at, quotation_id)
			VALUES (?, ?, ?)`, q.UserID, q.CreatedAt, q.ID).WithContext(ctx).Exec()
}

func (s *ScyllaQuotations) Get(ctx context.Context, quotationID string) (*models.Quotation, []models.QuotationDetail, error) {
	qid, err := gocql.ParseUUID(quotationID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return nil, nil, err
	}

	quotation, err := scanQuotation(session.Query(`SELECT `+quotationColumns+`
		FROM quotations WHERE quotation_id = ?`, qid).WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	iter := session.Query(`SELECT quotation_id, detail_id, product_id, quantity, variant_id,
			variant_sku, variant_weight, variant_unit, base_price, discount_pct,
			final_price, subtotal, product_name, product_category, product_type, product_image
		FROM quotation_details WHERE quotation_id = ?`, qid).WithContext(ctx).Iter()

	var details []models.QuotationDetail
	var d models.QuotationDetail
	for iter.Scan(&d.QuotationID, &d.DetailID, &d.ProductID, &d.Quantity, &d.VariantID,
		&d.VariantSKU, &d.VariantWeight, &d.VariantUnit, &d.BasePrice, &d.DiscountPct,
		&d.FinalPrice, &d.Subtotal, &d.ProductName, &d.ProductCategory, &d.ProductType,
		&d.ProductImage) {
		details = append(details, d)
	}
	if err := iter.Close(); err != nil {
		return nil, nil, err
	}

	return quotation, details, nil
}

func (s *ScyllaQuotations) ListByUser(ctx context.Context, userID string) ([]models.Quotation, error) {
	session, err := database.GetPedidosSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT quotation_id FROM quotations_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	var quotations []models.Quotation
	for _, qid := range ids {
		q, err := scanQuotation(session.Query(`SELECT `+quotationColumns+`
			FROM quotations WHERE quotation_id = ?`, qid).WithContext(ctx))
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, *q)
	}

	return quotations, nil
}

func (s *ScyllaQuotations) UpdateStatus(ctx context.Context, quotationID, status string) error {
	qid, err := gocql.ParseUUID(quotationID)
	if err != nil {
		return ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE quotations SET status = ? WHERE quotation_id = ?`, status, qid).
		WithContext(ctx).Exec()
}

func (s *ScyllaQuotations) MarkConverted(ctx context.Context, quotationID string, orderID gocql.UUID) error {
	qid, err := gocql.ParseUUID(quotationID)
	if err != nil {
		return ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE quotations SET status = ?, order_id = ?
			WHERE quotation_id = ?`,
		models.QuotationStatusFinalizada, orderID, qid).WithContext(ctx).Exec()
}

func scanQuotation(q *gocql.Query) (*models.Quotation, error) {
	var quo models.Quotation
	err := q.Scan(&quo.ID, &quo.UserID, &quo.Status, &quo.CreatedAt, &quo.ValidUntil,
		&quo.Subtotal, &quo.ShippingCost, &quo.PaymentCommission, &quo.Total,
		&quo.ShippingAddress.Street, &quo.ShippingAddress.Number,
		&quo.ShippingAddress.City, &quo.ShippingAddress.Region,
		&quo.ShippingAddress.ZipCode, &quo.ShippingAddress.Reference,
		&quo.CarrierID, &quo.CarrierName, &quo.ShippingMethodName,
		&quo.PaymentMethodID, &quo.PaymentMethodName,
		&quo.EstimatedDelivery, &quo.OrderID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quo, nil
}
