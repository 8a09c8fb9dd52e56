package mysql

import (
	"context"

	productDomain "loan-calculator/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) *ProductRepository { return &ProductRepository{db: db} }

// Migrate creates or updates the loan_products table.
func (r *ProductRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&productDomain.Product{})
}

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *ProductRepository) Tx(ctx context.Context, fn func(repo *ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductRepository{db: tx})
	})
}

// Seed inserts the given products, leaving rows whose code already exists
// untouched so operator edits survive restarts.
func (r *ProductRepository) Seed(ctx context.Context, products ...productDomain.Product) error {
	return r.Tx(ctx, func(repo *ProductRepository) error {
		for i := range products {
			err := repo.db.WithContext(ctx).
				Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
				Create(&products[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*productDomain.Product, error) {
	var out productDomain.Product
	res := r.db.WithContext(ctx).Where("code = ?", code).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// List returns every live product ordered by code.
func (r *ProductRepository) List(ctx context.Context) ([]productDomain.Product, error) {
	var out []productDomain.Product
	res := r.db.WithContext(ctx).Order("code ASC").Find(&out)
	return out, res.Error
}
