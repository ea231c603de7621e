package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the catalog is unreadable while the database answers.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped indicates a check that did not run because a dependency failed.
	CheckSkipped CheckResult = "skipped"
)

// Report aggregates health check results.
type Report struct {
	Status     Status
	Checks     map[string]CheckResult
	Properties int // catalog size, 0 when the catalog check did not pass
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	catalog CatalogLoader
}

// New creates a Service. catalog can be nil.
func New(db DBPinger, catalog CatalogLoader) *Service {
	return &Service{db: db, catalog: catalog}
}

// Check pings the database, then loads the catalog if the ping succeeded.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, 2)}

	if err := s.db.Ping(ctx); err != nil {
		r.Checks["database"] = CheckError
		r.Status = Unhealthy
		if s.catalog != nil {
			r.Checks["catalog"] = CheckSkipped
		}
		return r
	}
	r.Checks["database"] = CheckOK

	if s.catalog == nil {
		return r
	}
	c, err := s.catalog.Load(ctx)
	if err != nil {
		r.Checks["catalog"] = CheckError
		r.Status = Degraded
		return r
	}
	r.Checks["catalog"] = CheckOK
	r.Properties = c.Len()
	return r
}
