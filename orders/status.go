package orders

import (
	"fmt"
	"time"

	"emporia/models"
)

const (
	StatusPending   = "pending"
	StatusHold      = "hold"
	StatusShipped   = "shipped"
	StatusCancelled = "cancelled"
	StatusDelivered = "delivered"
)

// validTransitions maps each status to the statuses reachable from it.
// cancelled and delivered are terminal.
var validTransitions = map[string][]string{
	StatusPending:   {StatusShipped, StatusCancelled, StatusHold},
	StatusHold:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusCancelled: {},
	StatusDelivered: {},
}

// InvalidTransitionError reports a status change outside the transition
// table.
type InvalidTransitionError struct {
	From, To string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Cannot transition from %s to %s", e.From, e.To)
}

func IsValidStatus(status string) bool {
	_, ok := validTransitions[status]
	return ok
}

// CanCancel reports whether a customer may still cancel an order in the
// given status.
func CanCancel(status string) bool {
	return status == StatusPending || status == StatusHold
}

// Transition applies a status change to the order aggregate: it validates
// the change against the transition table, stamps statusDates and appends a
// history entry. Pure over the aggregate plus clock and actor; persistence
// is the caller's job.
func Transition(o *models.Order, newStatus string, actor models.Actor, notes string, now time.Time) error {
	allowed, ok := validTransitions[o.Status]
	if !ok {
		return &InvalidTransitionError{From: o.Status, To: newStatus}
	}

	permitted := false
	for _, s := range allowed {
		if s == newStatus {
			permitted = true
			break
		}
	}
	if !permitted {
		return &InvalidTransitionError{From: o.Status, To: newStatus}
	}

	o.Status = newStatus
	if o.StatusDates == nil {
		o.StatusDates = make(map[string]time.Time)
	}
	o.StatusDates[newStatus] = now
	o.StatusHistory = append(o.StatusHistory, models.StatusChange{
		Status:    newStatus,
		ChangedBy: actor,
		Date:      now,
		Notes:     notes,
	})
	return nil
}
