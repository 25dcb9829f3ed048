package model

import (
	"eventro/shared/failure"
	"fmt"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusPaymentPending Status = "payment_pending"
	StatusConfirmed      Status = "confirmed"
	StatusEventDone      Status = "event_done"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Action string

const (
	ActionApprove       Action = "approve"
	ActionConfirm       Action = "confirm"
	ActionCompleteEvent Action = "complete_event"
	ActionFinishReview  Action = "finish_review"
	ActionReopenReview  Action = "reopen_review"
	ActionCancel        Action = "cancel"
)

// transitions maps each action to the states it may leave from and the state
// it lands on. Cancellation is terminal and only reachable before the event
// takes place.
var transitions = map[Action]struct {
	from []Status
	to   Status
}{
	ActionApprove:       {from: []Status{StatusPending}, to: StatusPaymentPending},
	ActionConfirm:       {from: []Status{StatusPaymentPending}, to: StatusConfirmed},
	ActionCompleteEvent: {from: []Status{StatusConfirmed}, to: StatusEventDone},
	ActionFinishReview:  {from: []Status{StatusEventDone}, to: StatusCompleted},
	ActionReopenReview:  {from: []Status{StatusCompleted}, to: StatusEventDone},
	ActionCancel:        {from: []Status{StatusPending, StatusPaymentPending, StatusConfirmed}, to: StatusCancelled},
}

// Transition resolves the next status for an action applied to the current
// status. It fails with an unprocessable error when the action is unknown or
// not allowed from the current status.
func Transition(current Status, action Action) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return current, failure.InvalidState(fmt.Sprintf("unknown booking action %q", action)) // nolint:wrapcheck
	}

	for _, from := range t.from {
		if current == from {
			return t.to, nil
		}
	}

	return current, failure.InvalidState(fmt.Sprintf("cannot %s a booking with status %q", action, current)) // nolint:wrapcheck
}
