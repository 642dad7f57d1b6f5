package services

import (
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
)

type transitionRule struct {
	from        []models.SessionStatus
	teacherOnly bool
}

// sessionTransitions lists every permitted target status. pending is only
// ever an initial state; completed and cancelled are terminal.
var sessionTransitions = map[models.SessionStatus]transitionRule{
	models.SessionConfirmed: {from: []models.SessionStatus{models.SessionPending}, teacherOnly: true},
	models.SessionCompleted: {from: []models.SessionStatus{models.SessionConfirmed}, teacherOnly: true},
	models.SessionCancelled: {from: []models.SessionStatus{models.SessionPending, models.SessionConfirmed}},
}

// checkTransition decides whether callerID may move session to `to`.
// The caller must already be known to be a party. Role is checked before
// the current state.
func checkTransition(session *models.Session, callerID uuid.UUID, to models.SessionStatus) error {
	if !to.Valid() {
		return Validation("invalid status %q", string(to))
	}
	rule, ok := sessionTransitions[to]
	if !ok {
		return Validation("invalid status transition")
	}
	if rule.teacherOnly && callerID != session.TeacherID {
		return Forbidden("only the teacher can mark a session " + string(to))
	}
	for _, from := range rule.from {
		if session.Status == from {
			return nil
		}
	}
	return Validation("invalid status transition")
}

func isParty(session *models.Session, userID uuid.UUID) bool {
	return session.TeacherID == userID || session.StudentID == userID
}
