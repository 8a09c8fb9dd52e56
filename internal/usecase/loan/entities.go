package loan

import (
	"fmt"
	"time"
)

// DayCount selects how the nominal annual rate becomes a monthly rate.
type DayCount string

const (
	// DayCount30360 uses rate/12: every month is 30 days of a 360 day year.
	DayCount30360 DayCount = "30/360"
	// DayCountACT360 accrues an average month of 365/12 days on a 360 day
	// year, i.e. rate × 365/360 / 12.
	DayCountACT360 DayCount = "ACT/360"
)

func (d DayCount) factor() float64 {
	if d == DayCountACT360 {
		return 365.0 / 360.0
	}
	return 1
}

// APRConvention selects how installments are discounted when solving for APR.
type APRConvention string

const (
	// APREffective discounts installment t by (1+i)^(t/12).
	APREffective APRConvention = "effective"
	// APRNominal discounts installment t by (1+i/12)^t.
	APRNominal APRConvention = "nominal"
)

// NegativeRatePolicy decides which gate rejects a negative interestRate.
type NegativeRatePolicy string

const (
	NegativeRateDomain     NegativeRatePolicy = "domain"
	NegativeRateStructural NegativeRatePolicy = "structural"
)

type SolverOptions struct {
	MaxIterations int
	// Tolerance is relative to the disbursed amount.
	Tolerance  float64
	LowerBound float64
	UpperBound float64
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{MaxIterations: 100, Tolerance: 1e-10, LowerBound: 0, UpperBound: 2}
}

type Options struct {
	DayCount           DayCount
	APRConvention      APRConvention
	NegativeRatePolicy NegativeRatePolicy
	Solver             SolverOptions
	LegacyErrorParity  bool
	CacheTTL           time.Duration
}

func DefaultOptions() Options {
	return Options{
		DayCount:           DayCountACT360,
		APRConvention:      APREffective,
		NegativeRatePolicy: NegativeRateDomain,
		Solver:             DefaultSolverOptions(),
		LegacyErrorParity:  true,
		CacheTTL:           10 * time.Minute,
	}
}

// fingerprint identifies the settings that influence a quote's figures.
func (o Options) fingerprint() string {
	return fmt.Sprintf("%s|%s|%d|%g", o.DayCount, o.APRConvention, o.Solver.MaxIterations, o.Solver.Tolerance)
}

// ---- wire DTOs ----

type QuoteDTO struct {
	MonthlyPayment       float64 `json:"monthlyPayment"`
	APR                  float64 `json:"apr"`
	TotalRepayableAmount float64 `json:"totalRepayableAmount"`
}

type InstallmentDTO struct {
	Number    int     `json:"number"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Fee       float64 `json:"fee"`
	Balance   float64 `json:"balance"`
}

type ScheduleDTO struct {
	QuoteDTO
	Installments []InstallmentDTO `json:"installments"`
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ErrorDTO struct {
	Error ErrorDetail `json:"error"`
}
