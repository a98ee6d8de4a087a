package api

import (
	"context"
	"time"

	"github.com/vytor/repeetcode/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Attempts services.AttemptService
	Queries  services.QueryService
	Catalogs services.CatalogService
	DB       Pinger

	// UserIDHeader names the header carrying the authenticated user id.
	UserIDHeader string
	// Location is the default time zone for calendar-day questions.
	Location       *time.Location
	RequestTimeout time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}
