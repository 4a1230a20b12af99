package mysql

import (
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nicolasdelfino-123/vape-store/pkg/product/domain/model"
)

type productRepository struct {
	db sqlx.Ext
}

// NewProductRepository builds a ProductRepository over db, which may be a
// *sqlx.DB or a *sqlx.Tx so the repository participates in a unit of work.
func NewProductRepository(db sqlx.Ext) model.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

type productRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Stock           int       `db:"stock"`
	FlavorEnabled   bool      `db:"flavor_enabled"`
	FlavorStockMode bool      `db:"flavor_stock_mode"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type variantRow struct {
	ProductID string `db:"product_id"`
	Position  int    `db:"position"`
	Name      string `db:"name"`
	Active    bool   `db:"active"`
	Stock     int    `db:"stock"`
}

func (r *productRepository) Create(product *model.Product) error {
	_, err := r.db.Exec(
		`INSERT INTO products (id, name, stock, flavor_enabled, flavor_stock_mode, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.ID.String(), product.Name, product.StockQuantity,
		product.FlavorEnabled, product.FlavorStockMode, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert product")
	}
	return r.replaceVariants(product)
}

func (r *productRepository) Update(product *model.Product) error {
	_, err := r.db.Exec(
		`UPDATE products SET name = ?, stock = ?, flavor_enabled = ?, flavor_stock_mode = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name, product.StockQuantity, product.FlavorEnabled,
		product.FlavorStockMode, product.UpdatedAt, product.ID.String(),
	)
	if err != nil {
		return errors.Wrap(err, "update product")
	}

	if _, err := r.db.Exec(`DELETE FROM product_variants WHERE product_id = ?`, product.ID.String()); err != nil {
		return errors.Wrap(err, "clear product variants")
	}
	return r.replaceVariants(product)
}

func (r *productRepository) Find(id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := sqlx.Get(r.db, &row, `SELECT * FROM products WHERE id = ?`, id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}

	var variants []variantRow
	err = sqlx.Select(r.db, &variants,
		`SELECT * FROM product_variants WHERE product_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "select product variants")
	}

	product := &model.Product{
		ID:              id,
		Name:            row.Name,
		StockQuantity:   row.Stock,
		FlavorEnabled:   row.FlavorEnabled,
		FlavorStockMode: row.FlavorStockMode,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	for _, v := range variants {
		product.Variants = append(product.Variants, model.Variant{
			Name:          v.Name,
			Active:        v.Active,
			StockQuantity: v.Stock,
			Position:      v.Position,
		})
	}
	return product, nil
}

func (r *productRepository) replaceVariants(product *model.Product) error {
	// Slice order is the catalog order.
	for i, v := range product.Variants {
		_, err := r.db.Exec(
			`INSERT INTO product_variants (product_id, position, name, active, stock)
			 VALUES (?, ?, ?, ?, ?)`,
			product.ID.String(), i, v.Name, v.Active, v.StockQuantity,
		)
		if err != nil {
			return errors.Wrap(err, "insert product variant")
		}
	}
	return nil
}
