package mysql

import (
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nicolasdelfino-123/vape-store/pkg/user/domain/model"
)

const duplicateEntryErrNumber = 1062

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) model.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

type userRow struct {
	ID                string    `db:"id"`
	Email             string    `db:"email"`
	HashedPassword    string    `db:"hashed_password"`
	Name              string    `db:"name"`
	Phone             string    `db:"phone"`
	ShippingAddress   string    `db:"shipping_address"`
	BillingAddress    string    `db:"billing_address"`
	DNI               string    `db:"dni"`
	IsActive          bool      `db:"is_active"`
	IsAdmin           bool      `db:"is_admin"`
	MustResetPassword bool      `db:"must_reset_password"`
	LastLogin         time.Time `db:"last_login"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r *userRepository) Create(user *model.User) error {
	_, err := r.db.Exec(
		`INSERT INTO users
		 (id, email, hashed_password, name, phone, shipping_address, billing_address,
		  dni, is_active, is_admin, must_reset_password, last_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID.String(), user.Email, user.HashedPassword, user.Name, user.Phone,
		user.ShippingAddress, user.BillingAddress, user.DNI,
		user.IsActive, user.IsAdmin, user.MustResetPassword,
		user.LastLogin, user.CreatedAt, user.UpdatedAt,
	)
	if isDuplicateEntry(err) {
		return model.ErrEmailTaken
	}
	return errors.Wrap(err, "insert user")
}

func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(
		`UPDATE users SET email = ?, hashed_password = ?, name = ?, phone = ?,
		 shipping_address = ?, billing_address = ?, dni = ?, is_active = ?, is_admin = ?,
		 must_reset_password = ?, last_login = ?, updated_at = ?
		 WHERE id = ?`,
		user.Email, user.HashedPassword, user.Name, user.Phone,
		user.ShippingAddress, user.BillingAddress, user.DNI,
		user.IsActive, user.IsAdmin, user.MustResetPassword,
		user.LastLogin, user.UpdatedAt, user.ID.String(),
	)
	return errors.Wrap(err, "update user")
}

func (r *userRepository) Find(id uuid.UUID) (*model.User, error) {
	return r.findOne(`SELECT * FROM users WHERE id = ?`, id.String())
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.findOne(`SELECT * FROM users WHERE LOWER(email) = LOWER(?)`, email)
}

func (r *userRepository) findOne(query string, arg interface{}) (*model.User, error) {
	var row userRow
	err := r.db.Get(&row, query, arg)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select user")
	}

	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse user id")
	}

	return &model.User{
		ID:                id,
		Email:             row.Email,
		HashedPassword:    row.HashedPassword,
		Name:              row.Name,
		Phone:             row.Phone,
		ShippingAddress:   row.ShippingAddress,
		BillingAddress:    row.BillingAddress,
		DNI:               row.DNI,
		IsActive:          row.IsActive,
		IsAdmin:           row.IsAdmin,
		MustResetPassword: row.MustResetPassword,
		LastLogin:         row.LastLogin,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return stderrors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntryErrNumber
}
