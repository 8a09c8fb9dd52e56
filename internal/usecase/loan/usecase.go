package loan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	domain "loan-calculator/internal/domain/loan"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Usecase wires the pipeline: schema -> rules -> amortization -> APR.
// products and cache are optional; without them the default product policy
// applies and nothing is cached.
type Usecase struct {
	products domain.ProductRepository
	cache    domain.QuoteCache
	log      *zap.Logger
	opts     Options

	schema *SchemaValidator
	rules  RuleValidator
	calc   Calculator
	solver APRSolver
	asm    Assembler
}

func NewUsecase(products domain.ProductRepository, cache domain.QuoteCache, log *zap.Logger, opts Options) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		products: products,
		cache:    cache,
		log:      log,
		opts:     opts,
		schema:   NewSchemaValidator(opts.NegativeRatePolicy),
		rules:    NewRuleValidator(),
		calc:     NewCalculator(opts.DayCount),
		solver:   NewAPRSolver(opts.APRConvention, opts.Solver),
		asm:      NewAssembler(opts.LegacyErrorParity),
	}
}

// Calculate runs the full pipeline on a raw JSON body.
func (u *Usecase) Calculate(ctx context.Context, raw []byte) Result {
	return u.run(ctx, raw, false)
}

// Schedule is Calculate plus the amortization table.
func (u *Usecase) Schedule(ctx context.Context, raw []byte) Result {
	return u.run(ctx, raw, true)
}

// Respond maps a Result onto the wire contract.
func (u *Usecase) Respond(r Result) Response { return u.asm.Assemble(r) }

func (u *Usecase) run(ctx context.Context, raw []byte, withSchedule bool) Result {
	req, err := u.schema.Validate(raw)
	if err != nil {
		u.log.Debug("quote rejected", zap.String("kind", KindStructural.String()), zap.Error(err))
		return resultFromError(err)
	}

	product := u.product(ctx, req.ProductType)
	if err := u.rules.Validate(req, product); err != nil {
		u.log.Info("quote rejected",
			zap.String("kind", KindDomain.String()),
			zap.String("product", req.ProductType),
			zap.Error(err))
		return resultFromError(err)
	}

	q, err := u.quote(ctx, req)
	if err != nil {
		u.log.Warn("quote failed",
			zap.String("kind", KindComputation.String()),
			zap.Float64("amount", req.Amount),
			zap.Int("maturity", req.Maturity),
			zap.Error(err))
		return resultFromError(err)
	}

	res := Result{Kind: KindSuccess, Quote: q}
	if withSchedule {
		res.Schedule = u.calc.Schedule(req)
	}
	return res
}

// quote serves from cache when possible. Cache trouble never fails a request.
func (u *Usecase) quote(ctx context.Context, req domain.Request) (domain.Quote, error) {
	key := u.cacheKey(req)
	if u.cache != nil {
		cached, err := u.cache.Get(ctx, key)
		if err != nil {
			u.log.Warn("quote cache get failed", zap.String("key", key), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	q := u.calc.Quote(req)
	res, err := u.solver.Solve(APRInput{
		Amount:         req.Amount,
		ConclusionFee:  req.ConclusionFee,
		MonthlyPayment: q.MonthlyPayment,
		Maturity:       req.Maturity,
	})
	if err != nil {
		return domain.Quote{}, err
	}
	q.APR = res.Rate

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, q, u.opts.CacheTTL); err != nil {
			u.log.Warn("quote cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return q, nil
}

func (u *Usecase) product(ctx context.Context, code string) domain.Product {
	if u.products == nil {
		return domain.DefaultProduct()
	}
	p, err := u.products.GetByCode(ctx, code)
	switch {
	case err == nil && p != nil:
		return *p
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
	default:
		u.log.Warn("product lookup failed, using default policy", zap.String("product", code), zap.Error(err))
	}
	return domain.DefaultProduct()
}

// cacheKey fingerprints the figures that affect a quote. Currency and
// monthlyPaymentDay do not, so they are left out.
func (u *Usecase) cacheKey(req domain.Request) string {
	b, _ := json.Marshal(struct {
		Opts string  `json:"o"`
		M    int     `json:"m"`
		Adm  float64 `json:"a"`
		Con  float64 `json:"c"`
		Amt  float64 `json:"p"`
		Rate float64 `json:"r"`
	}{u.opts.fingerprint(), req.Maturity, req.AdministrationFee, req.ConclusionFee, req.Amount, req.InterestRate})
	sum := sha256.Sum256(b)
	return "quote:v1:" + hex.EncodeToString(sum[:])
}
