package loan

import (
	"math"

	domain "loan-calculator/internal/domain/loan"
)

// Calculator derives the annuity installment. Nothing is rounded here; the
// APR solver needs the exact payment.
type Calculator struct{ dayCount DayCount }

func NewCalculator(dc DayCount) Calculator { return Calculator{dayCount: dc} }

// MonthlyRate converts the nominal annual percentage into a periodic rate.
func (c Calculator) MonthlyRate(interestRate float64) float64 {
	return interestRate / 100 * c.dayCount.factor() / 12
}

// BaseInstallment is the interest+principal part of each installment.
// A zero periodic rate makes the annuity formula 0/0, so it is handled as a
// straight split of the principal.
func (c Calculator) BaseInstallment(amount, interestRate float64, maturity int) float64 {
	r := c.MonthlyRate(interestRate)
	n := float64(maturity)
	if r == 0 {
		return amount / n
	}
	g := math.Pow(1+r, n)
	return amount * r * g / (g - 1)
}

// Quote fills MonthlyPayment and TotalRepayableAmount; APR is left to the solver.
func (c Calculator) Quote(req domain.Request) domain.Quote {
	mp := c.BaseInstallment(req.Amount, req.InterestRate, req.Maturity) + req.AdministrationFee
	return domain.Quote{
		MonthlyPayment:       mp,
		TotalRepayableAmount: mp*float64(req.Maturity) + req.ConclusionFee,
	}
}

// Schedule splits every installment into interest, principal and fee. The
// last row absorbs floating point residue so the balance closes at zero.
func (c Calculator) Schedule(req domain.Request) []domain.Installment {
	r := c.MonthlyRate(req.InterestRate)
	base := c.BaseInstallment(req.Amount, req.InterestRate, req.Maturity)

	out := make([]domain.Installment, 0, req.Maturity)
	balance := req.Amount
	for t := 1; t <= req.Maturity; t++ {
		interest := balance * r
		principal := base - interest
		if t == req.Maturity {
			principal = balance
		}
		balance -= principal
		out = append(out, domain.Installment{
			Number:    t,
			Payment:   interest + principal + req.AdministrationFee,
			Interest:  interest,
			Principal: principal,
			Fee:       req.AdministrationFee,
			Balance:   balance,
		})
	}
	return out
}
