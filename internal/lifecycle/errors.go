package lifecycle

import (
	"errors"
	"fmt"

	"github.com/fleetrelay/support-service/internal/domain"
)

// InvalidTransitionError rejects an action that is not legal from the
// ticket's current status. Callers should re-fetch state rather than retry.
type InvalidTransitionError struct {
	Action Action
	Status domain.TicketStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s ticket in status %s", e.Action, e.Status)
}

var (
	// ErrPermissionDenied means the actor lacks the assignee relationship
	// or admin role the action requires.
	ErrPermissionDenied = errors.New("actor not permitted to perform this action")

	// ErrMissingScoreCategory means Resolve was attempted without a
	// resolvable score category.
	ErrMissingScoreCategory = errors.New("score category required to resolve ticket")

	// ErrMissingHoldNote means Hold was attempted without a note.
	ErrMissingHoldNote = errors.New("hold note required to put ticket on hold")
)

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
