// Package store persists the canonical order event in Postgres.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowmart-systems/orderflow-stack/common/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the canonical keyed store. One row per order id; a duplicate
// delivery overwrites the row with identical content, so writes are
// idempotent.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a connection pool and verifies connectivity.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

// Migrate applies the embedded schema migrations.
func Migrate(connString string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, connString)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// UpsertOrder writes the full canonical field set keyed by order id.
// The money amount is bound from its exact decimal text, never float64;
// the order timestamp is stored verbatim.
func (s *Store) UpsertOrder(ctx context.Context, event *models.OrderEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	products, err := json.Marshal(event.ProductDetails)
	if err != nil {
		return fmt.Errorf("marshal product details: %w", err)
	}

	var street, city, state, zip, country *string
	if addr := event.ShippingAddress; addr != nil {
		street, city, state, zip, country = &addr.Street, &addr.City, &addr.State, &addr.Zip, &addr.Country
	}

	var paymentType, currency *string
	var amount *string
	var instalments *int
	if pd := event.PurchaseDetails; pd != nil {
		paymentType, currency = &pd.PaymentType, &pd.Currency
		instalments = &pd.Instalments
		if pd.Amount != "" {
			a := pd.Amount.String()
			amount = &a
		}
	}

	q := `INSERT INTO orders (
            order_id, customer_id, order_date, status,
            ship_street, ship_city, ship_state, ship_zip, ship_country,
            payment_type, amount, currency, instalments,
            product_details, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now())
        ON CONFLICT (order_id) DO UPDATE SET
            customer_id     = EXCLUDED.customer_id,
            order_date      = EXCLUDED.order_date,
            status          = EXCLUDED.status,
            ship_street     = EXCLUDED.ship_street,
            ship_city       = EXCLUDED.ship_city,
            ship_state      = EXCLUDED.ship_state,
            ship_zip        = EXCLUDED.ship_zip,
            ship_country    = EXCLUDED.ship_country,
            payment_type    = EXCLUDED.payment_type,
            amount          = EXCLUDED.amount,
            currency        = EXCLUDED.currency,
            instalments     = EXCLUDED.instalments,
            product_details = EXCLUDED.product_details,
            updated_at      = now()`

	_, err = s.pool.Exec(ctx, q,
		event.OrderID, event.CustomerID, event.OrderDate, event.Status,
		street, city, state, zip, country,
		paymentType, amount, currency, instalments,
		products,
	)
	if err != nil {
		return fmt.Errorf("upsert order %s: %w", event.OrderID, err)
	}

	return nil
}

// GetOrder reads one canonical order back by order id.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.OrderEvent, error) {
	q := `SELECT order_id, customer_id, order_date, status,
                 ship_street, ship_city, ship_state, ship_zip, ship_country,
                 payment_type, amount::text, currency, instalments,
                 product_details
          FROM orders WHERE order_id = $1`

	var event models.OrderEvent
	var street, city, state, zip, country *string
	var paymentType, amount, currency *string
	var instalments *int
	var products []byte

	err := s.pool.QueryRow(ctx, q, orderID).Scan(
		&event.OrderID, &event.CustomerID, &event.OrderDate, &event.Status,
		&street, &city, &state, &zip, &country,
		&paymentType, &amount, &currency, &instalments,
		&products,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("order %s not found", orderID)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if street != nil {
		event.ShippingAddress = &models.ShippingAddress{
			Street:  *street,
			City:    *city,
			State:   *state,
			Zip:     *zip,
			Country: *country,
		}
	}
	if paymentType != nil {
		event.PurchaseDetails = &models.PurchaseDetails{
			PaymentType: *paymentType,
			Currency:    *currency,
		}
		if amount != nil {
			event.PurchaseDetails.Amount = models.DecimalString(*amount)
		}
		if instalments != nil {
			event.PurchaseDetails.Instalments = *instalments
		}
	}
	if err := json.Unmarshal(products, &event.ProductDetails); err != nil {
		return nil, fmt.Errorf("unmarshal product details: %w", err)
	}

	return &event, nil
}
