package loan

import (
	"math"

	domain "loan-calculator/internal/domain/loan"
)

// APRInput is everything the solver needs; MonthlyPayment must be unrounded.
type APRInput struct {
	Amount         float64
	ConclusionFee  float64
	MonthlyPayment float64
	Maturity       int
}

type APRResult struct {
	// Rate is the annual rate as a fraction (0.1903 for 19.03 %).
	Rate       float64
	Iterations int
}

// APRSolver finds i such that the installments discounted at i are worth
// exactly the amount paid out (amount - conclusionFee).
//
// It runs Newton-Raphson inside [LowerBound, UpperBound], starting at the
// lower bound. The present value is convex and decreasing in i, so from the
// left Newton approaches the root monotonically; a step that still escapes
// the bracket (or a vanishing derivative) is replaced by bisection. The
// search is deterministic and bounded by MaxIterations.
type APRSolver struct {
	conv APRConvention
	opts SolverOptions
}

func NewAPRSolver(conv APRConvention, opts SolverOptions) APRSolver {
	return APRSolver{conv: conv, opts: opts}
}

func (s APRSolver) Solve(in APRInput) (APRResult, error) {
	target := in.Amount - in.ConclusionFee
	if target <= 0 {
		return APRResult{}, &domain.ComputationError{Reason: "disbursed amount is not positive"}
	}
	if in.Maturity <= 0 || in.MonthlyPayment <= 0 || math.IsNaN(in.MonthlyPayment) || math.IsInf(in.MonthlyPayment, 0) {
		return APRResult{}, &domain.ComputationError{Reason: "installment stream is empty"}
	}

	tol := s.opts.Tolerance * target
	lo, hi := s.opts.LowerBound, s.opts.UpperBound

	fLo, _ := s.residual(in, target, lo)
	if math.Abs(fLo) <= tol {
		return APRResult{Rate: lo}, nil
	}
	if fLo < 0 {
		return APRResult{}, &domain.ComputationError{Reason: "rate is below the search interval"}
	}
	if fHi, _ := s.residual(in, target, hi); fHi > 0 {
		return APRResult{}, &domain.ComputationError{Reason: "rate is above the search interval"}
	}

	i := lo
	for iter := 1; iter <= s.opts.MaxIterations; iter++ {
		f, df := s.residual(in, target, i)
		if math.Abs(f) <= tol {
			return APRResult{Rate: i, Iterations: iter}, nil
		}
		if f > 0 {
			lo = i
		} else {
			hi = i
		}

		next := (lo + hi) / 2
		if math.Abs(df) > 1e-15 {
			if n := i - f/df; n > lo && n < hi {
				next = n
			}
		}
		i = next
	}
	return APRResult{}, &domain.ComputationError{Reason: "did not converge", Iterations: s.opts.MaxIterations}
}

// residual returns PV(i) - target and its derivative with respect to i.
//
//	effective: PV = Σ m·q^t, q = (1+i)^(-1/12),  dPV/di = -m/(12(1+i))   · Σ t·q^t
//	nominal:   PV = Σ m·q^t, q = 1/(1+i/12),      dPV/di = -m/(12(1+i/12)) · Σ t·q^t
func (s APRSolver) residual(in APRInput, target, i float64) (float64, float64) {
	var q, scale float64
	switch s.conv {
	case APRNominal:
		q = 1 / (1 + i/12)
		scale = 1 / (12 * (1 + i/12))
	default:
		q = math.Pow(1+i, -1.0/12)
		scale = 1 / (12 * (1 + i))
	}

	var sum, weighted float64
	d := 1.0
	for t := 1; t <= in.Maturity; t++ {
		d *= q
		sum += d
		weighted += float64(t) * d
	}
	return in.MonthlyPayment*sum - target, -in.MonthlyPayment * scale * weighted
}
