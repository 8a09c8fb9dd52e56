package loan

import (
	"time"

	"gorm.io/gorm"
)

// Request is a structurally valid quotation request. It is built once per
// call and never mutated afterwards.
type Request struct {
	Currency          string  `json:"currency"`
	ProductType       string  `json:"productType"`
	Maturity          int     `json:"maturity"`
	AdministrationFee float64 `json:"administrationFee"`
	ConclusionFee     float64 `json:"conclusionFee"`
	Amount            float64 `json:"amount"`
	MonthlyPaymentDay int     `json:"monthlyPaymentDay"`
	InterestRate      float64 `json:"interestRate"`
}

// Quote holds unrounded figures; rounding happens when it is rendered.
type Quote struct {
	MonthlyPayment float64
	// APR is an annual fraction, 0.19 for 19 %.
	APR                  float64
	TotalRepayableAmount float64
}

// Installment is one row of the amortization table.
type Installment struct {
	Number    int
	Payment   float64
	Interest  float64
	Principal float64
	Fee       float64
	Balance   float64
}

// Product is the catalog row that parameterizes the business rules for a
// productType. Zero MaxInterestRate means "no ceiling"; a zero MaxMaturity
// falls back to the engine-wide maturity cap.
type Product struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"-"`
	Code            string         `gorm:"size:64;uniqueIndex:ux_loan_products_code" json:"code"`
	Currency        string         `gorm:"size:3" json:"currency"`
	MinAmount       float64        `gorm:"type:decimal(18,2)" json:"min_amount"`
	MaxAmount       float64        `gorm:"type:decimal(18,2)" json:"max_amount"`
	MinMaturity     int            `json:"min_maturity"`
	MaxMaturity     int            `json:"max_maturity"`
	MaxInterestRate float64        `gorm:"type:decimal(6,3)" json:"max_interest_rate"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "loan_products" }

const DefaultProductCode = "SMALL_LOAN_EE01"

// DefaultProduct is used whenever the catalog has no row for a productType
// or cannot be reached.
func DefaultProduct() Product {
	return Product{
		Code:        DefaultProductCode,
		Currency:    "EUR",
		MinAmount:   500,
		MaxAmount:   30000,
		MinMaturity: 1,
		MaxMaturity: 120,
	}
}
