package loan

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	domain "loan-calculator/internal/domain/loan"
	"loan-calculator/internal/testutil/productmock"

	"github.com/stretchr/testify/assert"
)

// ----- test doubles -----

type memCache struct {
	mu     sync.Mutex
	data   map[string]domain.Quote
	getErr error
	setErr error
	sets   int
}

func newMemCache() *memCache { return &memCache{data: map[string]domain.Quote{}} }

func (m *memCache) Get(_ context.Context, key string) (*domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	q, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m *memCache) Set(_ context.Context, key string, q domain.Quote, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = q
	return nil
}

// ----- tests -----

func TestCalculate_ReferenceVector(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, DefaultOptions())

	res := uc.Calculate(context.Background(), mustJSON(t, defaultPayload()))
	if res.Kind != KindSuccess {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
	resp := uc.Respond(res)
	q := resp.Body.(QuoteDTO)
	if q.MonthlyPayment != 123.22 || q.APR != 19.03 || q.TotalRepayableAmount != 7493.23 {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if res.Schedule != nil {
		t.Fatalf("Calculate must not build a schedule")
	}
}

func TestCalculate_LegacyContract(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, DefaultOptions())

	cases := []struct {
		name    string
		payload map[string]any
		status  int
	}{
		{"missing amount", without(defaultPayload(), "amount"), http.StatusBadRequest},
		{"zero amount", with(defaultPayload(), "amount", 0), http.StatusInternalServerError},
		{"amount 499", with(defaultPayload(), "amount", 499), http.StatusInternalServerError},
		{"amount 500", with(defaultPayload(), "amount", 500), http.StatusOK},
		{"amount 30000", with(defaultPayload(), "amount", 30000), http.StatusOK},
		{"amount 30001", with(defaultPayload(), "amount", 30001), http.StatusInternalServerError},
		{"negative maturity", with(defaultPayload(), "maturity", -12), http.StatusInternalServerError},
		{"negative amount", with(defaultPayload(), "amount", -1000), http.StatusInternalServerError},
		{"negative rate", with(defaultPayload(), "interestRate", -1), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := uc.Respond(uc.Calculate(context.Background(), mustJSON(t, tc.payload)))
			if resp.Status != tc.status {
				t.Fatalf("status=%d want %d (body %+v)", resp.Status, tc.status, resp.Body)
			}
			if tc.status == http.StatusInternalServerError {
				if msg := resp.Body.(ErrorDTO).Error.Message; msg != GenericFailureMessage {
					t.Fatalf("message=%q", msg)
				}
			}
		})
	}
}

func TestCalculate_NegativeRateStructuralPolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.NegativeRatePolicy = NegativeRateStructural
	uc := NewUsecase(nil, nil, nil, opts)

	res := uc.Calculate(context.Background(), mustJSON(t, with(defaultPayload(), "interestRate", -1)))
	if res.Kind != KindStructural {
		t.Fatalf("kind=%v", res.Kind)
	}
	if resp := uc.Respond(res); resp.Status != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.Status)
	}
}

func TestCalculate_ComputationErrorSurfacesAs500(t *testing.T) {
	opts := DefaultOptions()
	opts.Solver.MaxIterations = 1
	opts.LegacyErrorParity = false
	uc := NewUsecase(nil, nil, nil, opts)

	res := uc.Calculate(context.Background(), mustJSON(t, defaultPayload()))
	var ce *domain.ComputationError
	if res.Kind != KindComputation || !errors.As(res.Err, &ce) {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
	if resp := uc.Respond(res); resp.Status != http.StatusInternalServerError {
		t.Fatalf("status=%d", resp.Status)
	}
}

func TestCalculate_ZeroRateFallback(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, DefaultOptions())

	res := uc.Calculate(context.Background(), mustJSON(t, with(defaultPayload(), "interestRate", 0)))
	if res.Kind != KindSuccess {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
	assert.InDelta(t, 5000.0/60+3.99, res.Quote.MonthlyPayment, 1e-9)
	assert.InDelta(t, (5000.0/60+3.99)*60+100, res.Quote.TotalRepayableAmount, 1e-7)
}

func TestCalculate_PositivityAcrossMaturities(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, DefaultOptions())
	for _, m := range []int{12, 24, 36, 60} {
		resp := uc.Respond(uc.Calculate(context.Background(), mustJSON(t, with(defaultPayload(), "maturity", m))))
		q, ok := resp.Body.(QuoteDTO)
		if !ok || q.MonthlyPayment <= 0 || q.APR <= 0 {
			t.Fatalf("maturity %d: %d %+v", m, resp.Status, resp.Body)
		}
	}
}

func TestCalculate_DeterministicAndConcurrent(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, DefaultOptions())
	raw := mustJSON(t, defaultPayload())
	want := uc.Calculate(context.Background(), raw).Quote

	var wg sync.WaitGroup
	errs := make(chan domain.Quote, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := uc.Calculate(context.Background(), raw).Quote; got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("non-deterministic quote: %+v vs %+v", got, want)
	}
}

func TestSchedule_ReturnsInstallments(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, DefaultOptions())

	res := uc.Schedule(context.Background(), mustJSON(t, with(defaultPayload(), "maturity", 12)))
	if res.Kind != KindSuccess || len(res.Schedule) != 12 {
		t.Fatalf("kind=%v rows=%d err=%v", res.Kind, len(res.Schedule), res.Err)
	}
	body := uc.Respond(res).Body.(ScheduleDTO)
	if body.Installments[11].Balance != 0 || body.APR <= 0 {
		t.Fatalf("unexpected schedule body: %+v", body.QuoteDTO)
	}
}

func TestCalculate_UsesProductPolicy(t *testing.T) {
	repo := productmock.Fixed(domain.Product{Code: "BIG_LOAN", MinAmount: 1000, MaxAmount: 100000, MinMaturity: 1})
	uc := NewUsecase(repo, nil, nil, DefaultOptions())

	// 50000 is above the default ceiling but fine for BIG_LOAN
	res := uc.Calculate(context.Background(), mustJSON(t, with(defaultPayload(), "productType", "BIG_LOAN", "amount", 50000)))
	if res.Kind != KindSuccess {
		t.Fatalf("BIG_LOAN: kind=%v err=%v", res.Kind, res.Err)
	}
	// 800 is fine by default but under BIG_LOAN's floor
	res = uc.Calculate(context.Background(), mustJSON(t, with(defaultPayload(), "productType", "BIG_LOAN", "amount", 800)))
	if res.Kind != KindDomain {
		t.Fatalf("BIG_LOAN floor: kind=%v", res.Kind)
	}
	// unknown product falls back to the default policy
	res = uc.Calculate(context.Background(), mustJSON(t, with(defaultPayload(), "amount", 30001)))
	if res.Kind != KindDomain {
		t.Fatalf("default policy: kind=%v", res.Kind)
	}
	if len(repo.Calls) != 3 || repo.Calls[2] != "SMALL_LOAN_EE01" {
		t.Fatalf("calls=%v", repo.Calls)
	}
}

func TestCalculate_ProductStoreDownUsesDefault(t *testing.T) {
	repo := &productmock.Repo{GetByCodeFn: func(ctx context.Context, code string) (*domain.Product, error) {
		return nil, errors.New("connection refused")
	}}
	uc := NewUsecase(repo, nil, nil, DefaultOptions())

	if res := uc.Calculate(context.Background(), mustJSON(t, defaultPayload())); res.Kind != KindSuccess {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
}

func TestCalculate_StructuralSkipsProductLookup(t *testing.T) {
	repo := &productmock.Repo{}
	uc := NewUsecase(repo, nil, nil, DefaultOptions())

	uc.Calculate(context.Background(), mustJSON(t, without(defaultPayload(), "amount")))
	if len(repo.Calls) != 0 {
		t.Fatalf("product lookup ran for a structurally invalid request: %v", repo.Calls)
	}
}

func TestCalculate_CacheHitAndMiss(t *testing.T) {
	cache := newMemCache()
	uc := NewUsecase(nil, cache, nil, DefaultOptions())
	raw := mustJSON(t, defaultPayload())

	first := uc.Calculate(context.Background(), raw)
	if first.Kind != KindSuccess || cache.sets != 1 || len(cache.data) != 1 {
		t.Fatalf("first call: kind=%v sets=%d", first.Kind, cache.sets)
	}

	// poison the entry: a hit must be served without recomputing
	for k := range cache.data {
		cache.data[k] = domain.Quote{MonthlyPayment: 1, APR: 0.01, TotalRepayableAmount: 2}
	}
	second := uc.Calculate(context.Background(), raw)
	if second.Quote.MonthlyPayment != 1 || cache.sets != 1 {
		t.Fatalf("expected cached quote, got %+v (sets=%d)", second.Quote, cache.sets)
	}

	// currency and payment day do not change the figures, so they share the entry
	other := mustJSON(t, with(defaultPayload(), "currency", "USD", "monthlyPaymentDay", 1))
	if got := uc.Calculate(context.Background(), other); got.Quote.MonthlyPayment != 1 {
		t.Fatalf("expected shared cache entry, got %+v", got.Quote)
	}
}

func TestCalculate_FailuresAreNotCached(t *testing.T) {
	cache := newMemCache()
	uc := NewUsecase(nil, cache, nil, DefaultOptions())

	uc.Calculate(context.Background(), mustJSON(t, with(defaultPayload(), "amount", 499)))
	uc.Calculate(context.Background(), mustJSON(t, without(defaultPayload(), "amount")))
	if cache.sets != 0 {
		t.Fatalf("sets=%d", cache.sets)
	}
}

func TestCalculate_CacheErrorsAreIgnored(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	uc := NewUsecase(nil, cache, nil, DefaultOptions())

	res := uc.Calculate(context.Background(), mustJSON(t, defaultPayload()))
	if res.Kind != KindSuccess {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
}

func TestCacheKey_DependsOnOptions(t *testing.T) {
	a := NewUsecase(nil, nil, nil, DefaultOptions())
	opts := DefaultOptions()
	opts.DayCount = DayCount30360
	b := NewUsecase(nil, nil, nil, opts)

	if a.cacheKey(defaultRequest()) == b.cacheKey(defaultRequest()) {
		t.Fatalf("cache key must include the day-count convention")
	}
}

func TestCalculate_HugeMaturityRejectedBeforeEngine(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, DefaultOptions())

	for _, run := range []func(context.Context, []byte) Result{uc.Calculate, uc.Schedule} {
		start := time.Now()
		res := run(context.Background(), mustJSON(t, with(defaultPayload(), "interestRate", 0, "maturity", 6_000_000)))
		if res.Kind != KindDomain {
			t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
		}
		if res.Schedule != nil {
			t.Fatalf("schedule built for a rejected request: %d rows", len(res.Schedule))
		}
		if d := time.Since(start); d > time.Second {
			t.Fatalf("rejection took %v", d)
		}
		if resp := uc.Respond(res); resp.Status != http.StatusInternalServerError {
			t.Fatalf("legacy status = %d, want 500", resp.Status)
		}
	}
}
