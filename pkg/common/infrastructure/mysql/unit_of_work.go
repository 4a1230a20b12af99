package mysql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nicolasdelfino-123/vape-store/pkg/app/reconciliation"
	ordermodel "github.com/nicolasdelfino-123/vape-store/pkg/order/domain/model"
	ordermysql "github.com/nicolasdelfino-123/vape-store/pkg/order/infrastructure/mysql"
	productmodel "github.com/nicolasdelfino-123/vape-store/pkg/product/domain/model"
	productmysql "github.com/nicolasdelfino-123/vape-store/pkg/product/infrastructure/mysql"
)

type unitOfWork struct {
	db *sqlx.DB
}

// NewUnitOfWork builds the transaction boundary for reconciliation runs.
// Each Execute call opens its own transaction, scoped strictly to that run.
func NewUnitOfWork(db *sqlx.DB) reconciliation.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Execute(ctx context.Context, fn func(r reconciliation.Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin reconciliation transaction")
	}
	defer tx.Rollback()

	if err := fn(txRepositories{tx: tx}); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "commit reconciliation transaction")
}

type txRepositories struct {
	tx *sqlx.Tx
}

func (r txRepositories) Orders() ordermodel.OrderRepository {
	return ordermysql.NewOrderRepository(r.tx)
}

func (r txRepositories) Products() productmodel.ProductRepository {
	return productmysql.NewProductRepository(r.tx)
}
