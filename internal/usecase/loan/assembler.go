package loan

import (
	"errors"
	"net/http"

	domain "loan-calculator/internal/domain/loan"

	"github.com/shopspring/decimal"
)

// Kind tags the terminal state of the pipeline.
type Kind int

const (
	KindSuccess Kind = iota
	KindStructural
	KindDomain
	KindComputation
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindStructural:
		return "structural"
	case KindDomain:
		return "domain"
	case KindComputation:
		return "computation"
	}
	return "unknown"
}

// Result is what the pipeline produces for every request. Quote is set only
// for KindSuccess, Schedule only when a schedule was asked for, Err only for
// the error kinds.
type Result struct {
	Kind     Kind
	Quote    domain.Quote
	Schedule []domain.Installment
	Err      error
}

func resultFromError(err error) Result {
	var se *domain.StructuralError
	var de *domain.DomainRangeError
	switch {
	case errors.As(err, &se):
		return Result{Kind: KindStructural, Err: err}
	case errors.As(err, &de):
		return Result{Kind: KindDomain, Err: err}
	default:
		return Result{Kind: KindComputation, Err: err}
	}
}

// Response is the boundary-facing shape: an HTTP status and a JSON body.
type Response struct {
	Status int
	Body   any
}

// GenericFailureMessage is the legacy body for every non-structural failure.
const GenericFailureMessage = "Well, we did not see this one coming"

// Assembler is the only place internal outcomes become status codes.
type Assembler struct{ legacyParity bool }

func NewAssembler(legacyParity bool) Assembler { return Assembler{legacyParity: legacyParity} }

func (a Assembler) Assemble(r Result) Response {
	switch r.Kind {
	case KindSuccess:
		q := toQuoteDTO(r.Quote)
		if r.Schedule == nil {
			return Response{Status: http.StatusOK, Body: q}
		}
		return Response{Status: http.StatusOK, Body: ScheduleDTO{QuoteDTO: q, Installments: toInstallmentDTOs(r.Schedule)}}
	case KindStructural:
		return errorResponse(http.StatusBadRequest, r.Err.Error())
	case KindDomain:
		if a.legacyParity {
			return errorResponse(http.StatusInternalServerError, GenericFailureMessage)
		}
		return errorResponse(http.StatusUnprocessableEntity, r.Err.Error())
	default:
		return errorResponse(http.StatusInternalServerError, GenericFailureMessage)
	}
}

func errorResponse(code int, msg string) Response {
	return Response{Status: code, Body: ErrorDTO{Error: ErrorDetail{Code: code, Message: msg}}}
}

// round2 rounds half away from zero on the decimal representation, so 0.125
// becomes 0.13 rather than falling victim to binary float error.
func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

func toQuoteDTO(q domain.Quote) QuoteDTO {
	return QuoteDTO{
		MonthlyPayment:       round2(q.MonthlyPayment),
		APR:                  round2(q.APR * 100),
		TotalRepayableAmount: round2(q.TotalRepayableAmount),
	}
}

func toInstallmentDTOs(in []domain.Installment) []InstallmentDTO {
	out := make([]InstallmentDTO, 0, len(in))
	for _, it := range in {
		out = append(out, InstallmentDTO{
			Number:    it.Number,
			Payment:   round2(it.Payment),
			Interest:  round2(it.Interest),
			Principal: round2(it.Principal),
			Fee:       round2(it.Fee),
			Balance:   round2(it.Balance),
		})
	}
	return out
}
