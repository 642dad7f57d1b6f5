// Package services implements the marketplace rules: identities, the
// skill catalog, listings, session bookings and reviews. Every mutating
// operation runs in a single database transaction and fails with an
// *Error whose Kind tells the caller what went wrong.
package services

import (
	"strings"

	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/google/uuid"
)

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, Validation("invalid %s", field)
	}
	return id, nil
}

func recorderOrNop(rec metrics.Recorder) metrics.Recorder {
	if rec == nil {
		return metrics.Nop{}
	}
	return rec
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// optionalText trims s and turns an empty result into nil.
func optionalText(s *string) *string {
	v := trimmed(s)
	if v == nil || *v == "" {
		return nil
	}
	return v
}
