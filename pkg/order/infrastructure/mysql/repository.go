package mysql

import (
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nicolasdelfino-123/vape-store/pkg/order/domain/model"
)

const duplicateEntryErrNumber = 1062

type orderRepository struct {
	db sqlx.Ext
}

// NewOrderRepository builds an OrderRepository over db, which may be a
// *sqlx.DB or a *sqlx.Tx so the repository participates in a unit of work.
func NewOrderRepository(db sqlx.Ext) model.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

type orderRow struct {
	ID                string         `db:"id"`
	UserID            sql.NullString `db:"user_id"`
	TotalCents        int64          `db:"total_cents"`
	Status            int            `db:"status"`
	ShippingAddress   string         `db:"shipping_address"`
	PaymentMethod     string         `db:"payment_method"`
	PaymentID         string         `db:"payment_id"`
	ExternalReference string         `db:"external_reference"`
	CustomerEmail     string         `db:"customer_email"`
	CustomerName      string         `db:"customer_name"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type itemRow struct {
	ID         string `db:"id"`
	OrderID    string `db:"order_id"`
	ProductID  string `db:"product_id"`
	Title      string `db:"title"`
	Quantity   int    `db:"quantity"`
	PriceCents int64  `db:"price_cents"`
	Flavor     string `db:"flavor"`
}

func (r *orderRepository) Create(order *model.Order) error {
	var userID interface{}
	if order.UserID != nil {
		userID = order.UserID.String()
	}

	_, err := r.db.Exec(
		`INSERT INTO orders
		 (id, user_id, total_cents, status, shipping_address, payment_method,
		  payment_id, external_reference, customer_email, customer_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID.String(), userID, order.TotalCents, int(order.Status),
		order.ShippingAddress, order.PaymentMethod, order.PaymentID,
		order.ExternalReference, order.CustomerEmail, order.CustomerName,
		order.CreatedAt, order.UpdatedAt,
	)
	if isDuplicateEntry(err) {
		return model.ErrDuplicatePayment
	}
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	for _, item := range order.Items {
		_, err := r.db.Exec(
			`INSERT INTO order_items (id, order_id, product_id, title, quantity, price_cents, flavor)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID.String(), order.ID.String(), item.ProductID.String(),
			item.Title, item.Quantity, item.PriceCents, item.Flavor,
		)
		if err != nil {
			return errors.Wrap(err, "insert order item")
		}
	}

	return nil
}

func (r *orderRepository) FindByPaymentID(paymentID string) (*model.Order, error) {
	return r.findOne(`SELECT * FROM orders WHERE payment_id = ?`, paymentID)
}

func (r *orderRepository) FindByExternalReference(externalReference string) (*model.Order, error) {
	return r.findOne(
		`SELECT * FROM orders WHERE external_reference = ? ORDER BY created_at DESC LIMIT 1`,
		externalReference,
	)
}

func (r *orderRepository) ListByUser(userID uuid.UUID) ([]model.Order, error) {
	var rows []orderRow
	err := sqlx.Select(r.db, &rows,
		`SELECT * FROM orders WHERE user_id = ? ORDER BY created_at DESC`,
		userID.String(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "select orders by user")
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := r.hydrate(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *orderRepository) findOne(query string, arg interface{}) (*model.Order, error) {
	var row orderRow
	err := sqlx.Get(r.db, &row, query, arg)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return r.hydrate(row)
}

func (r *orderRepository) hydrate(row orderRow) (*model.Order, error) {
	order, err := row.toOrder()
	if err != nil {
		return nil, err
	}

	var items []itemRow
	err = sqlx.Select(r.db, &items, `SELECT * FROM order_items WHERE order_id = ?`, row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "select order items")
	}

	for _, item := range items {
		lineItem, err := item.toLineItem()
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, lineItem)
	}
	return order, nil
}

func (row orderRow) toOrder() (*model.Order, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order id")
	}

	var userID *uuid.UUID
	if row.UserID.Valid {
		parsed, err := uuid.Parse(row.UserID.String)
		if err != nil {
			return nil, errors.Wrap(err, "parse order user id")
		}
		userID = &parsed
	}

	return &model.Order{
		ID:                id,
		UserID:            userID,
		TotalCents:        row.TotalCents,
		Status:            model.OrderStatus(row.Status),
		ShippingAddress:   row.ShippingAddress,
		PaymentMethod:     row.PaymentMethod,
		PaymentID:         row.PaymentID,
		ExternalReference: row.ExternalReference,
		CustomerEmail:     row.CustomerEmail,
		CustomerName:      row.CustomerName,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func (row itemRow) toLineItem() (model.LineItem, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return model.LineItem{}, errors.Wrap(err, "parse order item id")
	}
	orderID, err := uuid.Parse(row.OrderID)
	if err != nil {
		return model.LineItem{}, errors.Wrap(err, "parse order item order id")
	}
	productID, err := uuid.Parse(row.ProductID)
	if err != nil {
		return model.LineItem{}, errors.Wrap(err, "parse order item product id")
	}

	return model.LineItem{
		ID:         id,
		OrderID:    orderID,
		ProductID:  productID,
		Title:      row.Title,
		Quantity:   row.Quantity,
		PriceCents: row.PriceCents,
		Flavor:     row.Flavor,
	}, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return stderrors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNumber
}
