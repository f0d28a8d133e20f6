package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports process and database health.
type Service struct {
	DB      Pinger
	Version string
}

// NewService constructs a new health service. db may be nil when the process
// runs on in-memory repositories.
func NewService(db Pinger, version string) *Service {
	return &Service{DB: db, Version: version}
}

// Status is the /health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// Check pings the database. A process without a database reports "memory".
func (s *Service) Check(ctx context.Context) Status {
	st := Status{OK: true, Status: "healthy", Database: "memory", Version: s.Version}
	if s.DB == nil {
		return st
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		st.OK = false
		st.Status = "unhealthy"
		st.Database = "unreachable"
		return st
	}
	st.Database = "connected"
	return st
}
