package store

import (
	"context"

	"github.com/gocql/gocql"

	"hacienda_backend/internal/database"
	"hacienda_backend/internal/models"
)

// ScyllaMethods implementa MethodStore y AddressStore sobre los keyspaces
// de pedidos y usuarios.
type ScyllaMethods struct{}

func NewScyllaMethods() *ScyllaMethods { return &ScyllaMethods{} }

func (s *ScyllaMethods) GetCarrier(ctx context.Context, carrierID string) (*models.Carrier, error) {
	cid, err := gocql.ParseUUID(carrierID)
	if err != nil {
		return nil, ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return nil, err
	}

	var c models.Carrier
	err = session.Query(`SELECT carrier_id, name, is_active FROM carriers WHERE carrier_id = ?`, cid).
		WithContext(ctx).Scan(&c.ID, &c.Name, &c.Active)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT name, base_cost, extra_cost_per_kg, free_shipping_threshold, delivery_time
		FROM carrier_methods WHERE carrier_id = ?`, cid).WithContext(ctx).Iter()

	var m models.ShippingSubMethod
	for iter.Scan(&m.Name, &m.BaseCost, &m.ExtraCostPerKg, &m.FreeShippingThreshold, &m.DeliveryTime) {
		c.Methods = append(c.Methods, m)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *ScyllaMethods) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*models.PaymentMethod, error) {
	pmid, err := gocql.ParseUUID(paymentMethodID)
	if err != nil {
		return nil, ErrNotFound
	}

	session, err := database.GetPedidosSession()
	if err != nil {
		return nil, err
	}

	var pm models.PaymentMethod
	err = session.Query(`SELECT payment_method_id, name, provider, commission_pct, is_active
		FROM payment_methods WHERE payment_method_id = ?`, pmid).
		WithContext(ctx).Scan(&pm.ID, &pm.Name, &pm.Provider, &pm.CommissionPct, &pm.Active)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &pm, nil
}

// Get retorna una dirección del libro de direcciones.
func (s *ScyllaMethods) Get(ctx context.Context, addressID string) (*models.Address, error) {
	aid, err := gocql.ParseUUID(addressID)
	if err != nil {
		return nil, ErrNotFound
	}

	session, err := database.GetUsuariosSession()
	if err != nil {
		return nil, err
	}

	var a models.Address
	err = session.Query(`SELECT address_id, user_id, street, number, city, region, zip_code, reference
		FROM addresses WHERE address_id = ?`, aid).WithContext(ctx).Scan(
		&a.ID, &a.UserID, &a.Street, &a.Number, &a.City, &a.Region, &a.ZipCode, &a.Reference)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}
