package loan

import (
	"fmt"

	domain "loan-calculator/internal/domain/loan"
)

// MaxMaturityMonths caps maturity for every product. Amortization and APR
// work grow linearly with it.
const MaxMaturityMonths = 600

// RuleValidator is the second gate: the request is well formed, now check it
// against the product's business limits.
type RuleValidator struct{}

func NewRuleValidator() RuleValidator { return RuleValidator{} }

// Validate returns the first violated rule as *domain.DomainRangeError, or nil.
// amount, maturity and interestRate are checked first and in that order.
func (RuleValidator) Validate(r domain.Request, p domain.Product) error {
	if r.Amount < p.MinAmount || r.Amount > p.MaxAmount {
		return outOfRange("amount", fmt.Sprintf("must be between %s and %s", fmtNum(p.MinAmount), fmtNum(p.MaxAmount)))
	}
	minMaturity := p.MinMaturity
	if minMaturity < 1 {
		minMaturity = 1
	}
	if r.Maturity < minMaturity {
		if minMaturity == 1 {
			return outOfRange("maturity", "must be a positive number of months")
		}
		return outOfRange("maturity", fmt.Sprintf("must be at least %d months", minMaturity))
	}
	if r.InterestRate < 0 {
		return outOfRange("interestRate", "must not be negative")
	}

	maxMaturity := p.MaxMaturity
	if maxMaturity <= 0 || maxMaturity > MaxMaturityMonths {
		maxMaturity = MaxMaturityMonths
	}
	if r.Maturity > maxMaturity {
		return outOfRange("maturity", fmt.Sprintf("must be at most %d months", maxMaturity))
	}
	if p.MaxInterestRate > 0 && r.InterestRate > p.MaxInterestRate {
		return outOfRange("interestRate", "must be at most "+fmtNum(p.MaxInterestRate))
	}
	if r.AdministrationFee < 0 {
		return outOfRange("administrationFee", "must not be negative")
	}
	if r.ConclusionFee < 0 {
		return outOfRange("conclusionFee", "must not be negative")
	}
	if r.ConclusionFee >= r.Amount {
		return outOfRange("conclusionFee", "must be less than amount")
	}
	return nil
}

func outOfRange(field, reason string) error {
	return &domain.DomainRangeError{Field: field, Reason: reason}
}

func fmtNum(f float64) string { return fmt.Sprintf("%g", f) }
