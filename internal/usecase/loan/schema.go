package loan

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	domain "loan-calculator/internal/domain/loan"

	"github.com/go-playground/validator/v10"
)

// payload mirrors domain.Request with pointer fields so an absent key can be
// told apart from a zero value. Field order is the order in which missing
// fields are reported.
type payload struct {
	Currency          *string  `json:"currency"          validate:"required"`
	ProductType       *string  `json:"productType"       validate:"required"`
	Maturity          *int     `json:"maturity"          validate:"required"`
	AdministrationFee *float64 `json:"administrationFee" validate:"required"`
	ConclusionFee     *float64 `json:"conclusionFee"     validate:"required"`
	Amount            *float64 `json:"amount"            validate:"required"`
	MonthlyPaymentDay *int     `json:"monthlyPaymentDay" validate:"required"`
	InterestRate      *float64 `json:"interestRate"      validate:"required"`
}

// SchemaValidator checks presence and primitive types only. Ranges are left
// to RuleValidator, with one exception: under NegativeRateStructural a
// negative interestRate is rejected here.
type SchemaValidator struct {
	v          *validator.Validate
	negRateErr bool
}

func NewSchemaValidator(policy NegativeRatePolicy) *SchemaValidator {
	v := validator.New()
	// report json keys instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &SchemaValidator{v: v, negRateErr: policy == NegativeRateStructural}
}

// Validate decodes raw and returns the request, or a *domain.StructuralError.
func (s *SchemaValidator) Validate(raw []byte) (domain.Request, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Request{}, decodeError(err)
	}
	if err := s.v.Struct(p); err != nil {
		return domain.Request{}, toStructural(err)
	}
	if s.negRateErr && *p.InterestRate < 0 {
		return domain.Request{}, &domain.StructuralError{Field: "interestRate", Reason: "must not be negative"}
	}
	return domain.Request{
		Currency:          *p.Currency,
		ProductType:       *p.ProductType,
		Maturity:          *p.Maturity,
		AdministrationFee: *p.AdministrationFee,
		ConclusionFee:     *p.ConclusionFee,
		Amount:            *p.Amount,
		MonthlyPaymentDay: *p.MonthlyPaymentDay,
		InterestRate:      *p.InterestRate,
	}, nil
}

func decodeError(err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		reason := "must be a number"
		switch te.Type.Kind() {
		case reflect.String:
			reason = "must be a string"
		case reflect.Int:
			reason = "must be an integer"
		}
		return &domain.StructuralError{Field: te.Field, Reason: reason}
	}
	return &domain.StructuralError{Field: "body", Reason: "is not a valid JSON object"}
}

// toStructural keeps only the first failure, which is the first missing
// field in declaration order.
func toStructural(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &domain.StructuralError{Field: "_", Reason: err.Error()}
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return &domain.StructuralError{Field: fe.Field(), Reason: "is required"}
	default:
		return &domain.StructuralError{Field: fe.Field(), Reason: fe.Tag() + " validation failed"}
	}
}
