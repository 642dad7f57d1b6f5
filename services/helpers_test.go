package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

type recordingMetrics struct {
	mu          sync.Mutex
	listings    int
	bookings    int
	transitions map[string]int
	reviews     int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{transitions: map[string]int{}}
}

func (r *recordingMetrics) ListingCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings++
}

func (r *recordingMetrics) SessionBooked() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings++
}

func (r *recordingMetrics) SessionTransitioned(to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions[to]++
}

func (r *recordingMetrics) ReviewCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews++
}

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	tokens   *TokenIssuer
	identity *IdentityService
	catalog  *CatalogService
	listings *ListingService
	bookings *BookingService
	reviews  *ReviewService
	metrics  *recordingMetrics
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		ctx:     context.Background(),
		db:      db,
		tokens:  NewTokenIssuer("test-secret", time.Hour),
		metrics: newRecordingMetrics(),
		now:     fixedNow,
	}
	f.identity = NewIdentityService(db, f.tokens)
	f.catalog = NewCatalogService(db)
	f.listings = NewListingService(db, f.metrics)
	f.bookings = NewBookingService(db, f.metrics).WithClock(func() time.Time { return f.now })
	f.reviews = NewReviewService(db, f.metrics)
	return f
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, _, err := f.identity.Register(f.ctx, Registration{
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) skill(t *testing.T, name, category string) *models.Skill {
	t.Helper()
	s, err := f.catalog.CreateSkill(f.ctx, SkillInput{Name: name, Category: category})
	require.NoError(t, err)
	return s
}

func (f *fixture) listing(t *testing.T, owner *models.User, skill *models.Skill, title string, price float64) *ListingDetail {
	t.Helper()
	l, err := f.listings.Create(f.ctx, owner.ID, ListingInput{
		Title:        title,
		Description:  "Lessons in " + title,
		PricePerHour: price,
		SkillID:      skill.ID.String(),
	})
	require.NoError(t, err)
	return l
}

func (f *fixture) book(t *testing.T, student *models.User, listing *ListingDetail) *models.Session {
	t.Helper()
	s, err := f.bookings.Create(f.ctx, student.ID, BookingInput{
		ListingID:       listing.ID.String(),
		ScheduledAt:     f.now.Add(48 * time.Hour),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) setStatus(t *testing.T, session *models.Session, caller *models.User, status models.SessionStatus) {
	t.Helper()
	_, err := f.bookings.UpdateStatus(f.ctx, session.ID, caller.ID, string(status))
	require.NoError(t, err)
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
