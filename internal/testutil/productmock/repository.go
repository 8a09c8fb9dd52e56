package productmock

import (
	"context"

	domain "loan-calculator/internal/domain/loan"

	"gorm.io/gorm"
)

// Repo is a function-backed mock that satisfies domain.ProductRepository.
type Repo struct {
	GetByCodeFn func(ctx context.Context, code string) (*domain.Product, error)
	Calls       []string
}

// GetByCode records the code and defers to GetByCodeFn. Without one it
// behaves like an empty catalog.
func (m *Repo) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	m.Calls = append(m.Calls, code)
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

// Fixed returns a Repo that serves p for its code and not-found otherwise.
func Fixed(p domain.Product) *Repo {
	return &Repo{GetByCodeFn: func(_ context.Context, code string) (*domain.Product, error) {
		if code != p.Code {
			return nil, gorm.ErrRecordNotFound
		}
		cp := p
		return &cp, nil
	}}
}
