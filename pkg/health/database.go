package health

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// DatabaseChecker verifies PostgreSQL connectivity
type DatabaseChecker struct {
	db *sqlx.DB
}

// NewDatabaseChecker creates a new database checker
func NewDatabaseChecker(db *sqlx.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

// Name returns the component name
func (c *DatabaseChecker) Name() string {
	return "database"
}

// Check pings the database
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Component: c.Name(),
		Timestamp: start,
	}

	if err := c.db.PingContext(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	} else {
		result.Status = StatusHealthy
	}

	result.Duration = time.Since(start)
	return result
}
