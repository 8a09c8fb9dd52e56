package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"loan-calculator/internal/usecase/loan"
)

type Config struct {
	AppPort  string
	LogLevel string

	// empty MySQLHost disables the product catalog
	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// empty RedisAddr disables the quote cache and request replay
	RedisAddr string
	RedisDB   int

	IdempTTLSecs      int
	QuoteCacheTTLSecs int

	DayCount           string
	APRConvention      string
	NegativeRatePolicy string
	LegacyErrorParity  bool
	APRMaxIterations   int
	APRTolerance       float64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func Load() *Config {
	def := loan.DefaultOptions()
	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		MySQLHost: os.Getenv("MYSQL_HOST"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loans"),
		MySQLUser: getenv("MYSQL_USER", "loans"),
		MySQLPass: getenv("MYSQL_PASS", "loans"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs:      getint("IDEMPOTENCY_TTL_SECONDS", 300),
		QuoteCacheTTLSecs: getint("QUOTE_CACHE_TTL_SECONDS", int(def.CacheTTL/time.Second)),

		DayCount:           getenv("DAY_COUNT", string(def.DayCount)),
		APRConvention:      getenv("APR_CONVENTION", string(def.APRConvention)),
		NegativeRatePolicy: getenv("NEGATIVE_RATE_POLICY", string(def.NegativeRatePolicy)),
		LegacyErrorParity:  getbool("LEGACY_ERROR_PARITY", def.LegacyErrorParity),
		APRMaxIterations:   getint("APR_MAX_ITERATIONS", def.Solver.MaxIterations),
		APRTolerance:       getfloat("APR_TOLERANCE", def.Solver.Tolerance),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := net.LookupPort("tcp", c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	if c.CatalogEnabled() {
		if c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	}
	switch loan.DayCount(strings.ToUpper(c.DayCount)) {
	case loan.DayCount30360, loan.DayCountACT360:
	default:
		return fmt.Errorf("invalid DAY_COUNT %q (want 30/360 or ACT/360)", c.DayCount)
	}
	switch loan.APRConvention(strings.ToLower(c.APRConvention)) {
	case loan.APREffective, loan.APRNominal:
	default:
		return fmt.Errorf("invalid APR_CONVENTION %q (want effective or nominal)", c.APRConvention)
	}
	switch loan.NegativeRatePolicy(strings.ToLower(c.NegativeRatePolicy)) {
	case loan.NegativeRateDomain, loan.NegativeRateStructural:
	default:
		return fmt.Errorf("invalid NEGATIVE_RATE_POLICY %q (want domain or structural)", c.NegativeRatePolicy)
	}
	if c.APRMaxIterations < 1 {
		return fmt.Errorf("invalid APR_MAX_ITERATIONS %d", c.APRMaxIterations)
	}
	if c.APRTolerance <= 0 || c.APRTolerance >= 1 {
		return fmt.Errorf("invalid APR_TOLERANCE %g", c.APRTolerance)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if c.QuoteCacheTTLSecs < 0 {
		return fmt.Errorf("invalid QUOTE_CACHE_TTL_SECONDS %d", c.QuoteCacheTTLSecs)
	}
	return nil
}

func (c *Config) CatalogEnabled() bool { return c.MySQLHost != "" }

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) IdempTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

// LoanOptions maps the engine settings; call Validate first.
func (c *Config) LoanOptions() loan.Options {
	o := loan.DefaultOptions()
	o.DayCount = loan.DayCount(strings.ToUpper(c.DayCount))
	o.APRConvention = loan.APRConvention(strings.ToLower(c.APRConvention))
	o.NegativeRatePolicy = loan.NegativeRatePolicy(strings.ToLower(c.NegativeRatePolicy))
	o.LegacyErrorParity = c.LegacyErrorParity
	o.Solver.MaxIterations = c.APRMaxIterations
	o.Solver.Tolerance = c.APRTolerance
	o.CacheTTL = time.Duration(c.QuoteCacheTTLSecs) * time.Second
	return o
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
