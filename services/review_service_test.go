package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// completedSession books and completes a session of teacher's listing for student.
func (f *fixture) completedSession(t *testing.T, teacher, student *models.User, listing *ListingDetail) *models.Session {
	t.Helper()
	session := f.book(t, student, listing)
	f.setStatus(t, session, teacher, models.SessionConfirmed)
	f.setStatus(t, session, teacher, models.SessionCompleted)
	return session
}

func TestBookingToReviewScenario(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "teacher_a")
	b := f.user(t, "student_b")
	listing := f.listing(t, a, f.skill(t, "Guitar", "Music"), "Guitar basics", 40)

	session, err := f.bookings.Create(f.ctx, b.ID, BookingInput{
		ListingID:       listing.ID.String(),
		ScheduledAt:     fixedNow.Add(48 * time.Hour),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	f.setStatus(t, session, a, models.SessionConfirmed)
	f.setStatus(t, session, a, models.SessionCompleted)

	review, err := f.reviews.Create(f.ctx, b.ID, ReviewInput{SessionID: session.ID.String(), Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, a.ID, review.RevieweeID)
	assert.Equal(t, "student_b", review.Reviewer.Username)
	assert.Equal(t, "teacher_a", review.Reviewee.Username)

	avg, count, err := f.reviews.AverageRating(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, int64(1), count)

	_, err = f.reviews.Create(f.ctx, b.ID, ReviewInput{SessionID: session.ID.String(), Rating: 1})
	requireKind(t, err, KindConflict)

	stored, err := f.reviews.ListForUser(f.ctx, a.ID, "received")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 5, stored[0].Rating)
	assert.Equal(t, 1, f.metrics.reviews)

	detail, err := f.listings.Get(f.ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, detail.OwnerRating.Average)
	assert.Equal(t, int64(1), detail.OwnerRating.Count)
}

func TestAverageRating(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "teacher")
	listing := f.listing(t, teacher, f.skill(t, "Guitar", "Music"), "Guitar", 40)

	for i, rating := range []int{5, 4, 3} {
		student := f.user(t, "student"+string(rune('a'+i)))
		session := f.completedSession(t, teacher, student, listing)
		_, err := f.reviews.Create(f.ctx, student.ID, ReviewInput{SessionID: session.ID.String(), Rating: rating})
		require.NoError(t, err)
	}

	avg, count, err := f.reviews.AverageRating(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, int64(3), count)

	nobody := f.user(t, "nobody")
	avg, count, err = f.reviews.AverageRating(f.ctx, nobody.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, int64(0), count)
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "teacher")
	listing := f.listing(t, teacher, f.skill(t, "Guitar", "Music"), "Guitar", 40)

	for i, rating := range []int{5, 5, 4} {
		student := f.user(t, "student"+string(rune('a'+i)))
		session := f.completedSession(t, teacher, student, listing)
		_, err := f.reviews.Create(f.ctx, student.ID, ReviewInput{SessionID: session.ID.String(), Rating: rating})
		require.NoError(t, err)
	}

	avg, _, err := f.reviews.AverageRating(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.7, avg)
}

func TestCreateReviewEligibility(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "teacher")
	student := f.user(t, "student")
	listing := f.listing(t, teacher, f.skill(t, "Guitar", "Music"), "Guitar", 40)

	pending := f.book(t, student, listing)
	completed := f.completedSession(t, teacher, student, listing)

	tests := []struct {
		name     string
		reviewer uuid.UUID
		session  string
		rating   int
		kind     Kind
	}{
		{"rating too low beats unknown session", student.ID, uuid.NewString(), 0, KindValidation},
		{"rating too high", student.ID, completed.ID.String(), 6, KindValidation},
		{"unknown session", student.ID, uuid.NewString(), 4, KindNotFound},
		{"not completed", student.ID, pending.ID.String(), 4, KindValidation},
		{"teacher reviewing", teacher.ID, completed.ID.String(), 4, KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reviews.Create(f.ctx, tt.reviewer, ReviewInput{SessionID: tt.session, Rating: tt.rating})
			requireKind(t, err, tt.kind)
		})
	}
	assert.Equal(t, int64(0), f.count(t, &models.Review{}))

	_, err := f.reviews.Create(f.ctx, student.ID, ReviewInput{SessionID: pending.ID.String(), Rating: 4})
	assert.Equal(t, "can only review completed sessions", err.Error())
}

// A review committed by a concurrent request is invisible to the pre-check;
// the unique index on session_id must still turn the insert into a Conflict.
func TestCreateReviewLosesRaceToUniqueIndex(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "teacher")
	student := f.user(t, "student")
	listing := f.listing(t, teacher, f.skill(t, "Guitar", "Music"), "Guitar", 40)
	session := f.completedSession(t, teacher, student, listing)

	winner := models.Review{Rating: 5, ReviewerID: student.ID, RevieweeID: teacher.ID, SessionID: session.ID}
	require.NoError(t, f.db.Omit(clause.Associations).Create(&winner).Error)

	stale := true
	require.NoError(t, f.db.Callback().Query().Before("gorm:query").Register("test:stale_review_read", func(db *gorm.DB) {
		if stale && db.Statement.Table == "reviews" {
			db.Statement.AddClause(clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "1 = 0"}}})
		}
	}))

	_, err := f.reviews.Create(f.ctx, student.ID, ReviewInput{SessionID: session.ID.String(), Rating: 3})
	stale = false

	requireKind(t, err, KindConflict)
	assert.Equal(t, "session already reviewed", err.Error())
	assert.Equal(t, int64(1), f.count(t, &models.Review{}))
	assert.Zero(t, f.metrics.reviews)

	avg, count, err := f.reviews.AverageRating(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, int64(1), count)
}

func TestRatingFromNumber(t *testing.T) {
	r, err := RatingFromNumber(4)
	require.NoError(t, err)
	assert.Equal(t, 4, r)

	for _, v := range []float64{4.5, 0, 6, -1} {
		_, err := RatingFromNumber(v)
		requireKind(t, err, KindValidation)
	}
}

func TestUpdateAndDeleteReview(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "teacher")
	student := f.user(t, "student")
	listing := f.listing(t, teacher, f.skill(t, "Guitar", "Music"), "Guitar", 40)
	session := f.completedSession(t, teacher, student, listing)

	review, err := f.reviews.Create(f.ctx, student.ID, ReviewInput{SessionID: session.ID.String(), Rating: 3})
	require.NoError(t, err)

	five := 5
	_, err = f.reviews.Update(f.ctx, review.ID, teacher.ID, ReviewPatch{Rating: &five})
	requireKind(t, err, KindForbidden)

	zero := 0
	_, err = f.reviews.Update(f.ctx, review.ID, student.ID, ReviewPatch{Rating: &zero})
	requireKind(t, err, KindValidation)

	comment := "Great teacher"
	updated, err := f.reviews.Update(f.ctx, review.ID, student.ID, ReviewPatch{Rating: &five, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "Great teacher", *updated.Comment)

	err = f.reviews.Delete(f.ctx, review.ID, teacher.ID)
	requireKind(t, err, KindForbidden)

	require.NoError(t, f.reviews.Delete(f.ctx, review.ID, student.ID))
	err = f.reviews.Delete(f.ctx, review.ID, student.ID)
	requireKind(t, err, KindNotFound)

	avg, count, err := f.reviews.AverageRating(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, int64(0), count)
}

func TestListReviews(t *testing.T) {
	f := newFixture(t)
	teacher := f.user(t, "teacher")
	student := f.user(t, "student")
	other := f.user(t, "other")
	guitar := f.skill(t, "Guitar", "Music")
	teacherListing := f.listing(t, teacher, guitar, "Guitar", 40)
	studentListing := f.listing(t, student, guitar, "Riffs", 30)

	s1 := f.completedSession(t, teacher, student, teacherListing)
	s2 := f.completedSession(t, student, other, studentListing)
	_, err := f.reviews.Create(f.ctx, student.ID, ReviewInput{SessionID: s1.ID.String(), Rating: 4})
	require.NoError(t, err)
	_, err = f.reviews.Create(f.ctx, other.ID, ReviewInput{SessionID: s2.ID.String(), Rating: 2})
	require.NoError(t, err)

	given, err := f.reviews.ListForUser(f.ctx, student.ID, "given")
	require.NoError(t, err)
	require.Len(t, given, 1)
	assert.Equal(t, teacher.ID, given[0].RevieweeID)

	received, err := f.reviews.ListForUser(f.ctx, student.ID, "received")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, 2, received[0].Rating)

	_, err = f.reviews.ListForUser(f.ctx, student.ID, "")
	requireKind(t, err, KindValidation)

	page, err := f.reviews.List(f.ctx, ReviewFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = f.reviews.List(f.ctx, ReviewFilter{UserID: student.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = f.reviews.List(f.ctx, ReviewFilter{UserID: teacher.ID, Direction: "received"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.reviews.List(f.ctx, ReviewFilter{Direction: "given"})
	requireKind(t, err, KindValidation)
}
