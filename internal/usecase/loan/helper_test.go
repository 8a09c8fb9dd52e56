package loan

import (
	"encoding/json"
	"testing"

	domain "loan-calculator/internal/domain/loan"
)

// ---- helpers ----

func defaultPayload() map[string]any {
	return map[string]any{
		"currency":          "EUR",
		"productType":       "SMALL_LOAN_EE01",
		"maturity":          60,
		"administrationFee": 3.99,
		"conclusionFee":     100,
		"amount":            5000,
		"monthlyPaymentDay": 15,
		"interestRate":      14.9,
	}
}

func defaultRequest() domain.Request {
	return domain.Request{
		Currency:          "EUR",
		ProductType:       "SMALL_LOAN_EE01",
		Maturity:          60,
		AdministrationFee: 3.99,
		ConclusionFee:     100,
		Amount:            5000,
		MonthlyPaymentDay: 15,
		InterestRate:      14.9,
	}
}

func with(p map[string]any, kv ...any) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}

func without(p map[string]any, keys ...string) map[string]any {
	out := with(p)
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
