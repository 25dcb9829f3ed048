package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventro/internal/domains/booking/model"
	"eventro/shared/failure"
)

func TestTransition_Allowed(t *testing.T) {
	tests := []struct {
		name    string
		current model.Status
		action  model.Action
		want    model.Status
	}{
		{"approve pending", model.StatusPending, model.ActionApprove, model.StatusPaymentPending},
		{"confirm payment pending", model.StatusPaymentPending, model.ActionConfirm, model.StatusConfirmed},
		{"complete confirmed event", model.StatusConfirmed, model.ActionCompleteEvent, model.StatusEventDone},
		{"finish review after event", model.StatusEventDone, model.ActionFinishReview, model.StatusCompleted},
		{"reopen review", model.StatusCompleted, model.ActionReopenReview, model.StatusEventDone},
		{"cancel pending", model.StatusPending, model.ActionCancel, model.StatusCancelled},
		{"cancel payment pending", model.StatusPaymentPending, model.ActionCancel, model.StatusCancelled},
		{"cancel confirmed", model.StatusConfirmed, model.ActionCancel, model.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.Transition(tt.current, tt.action)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Forbidden(t *testing.T) {
	tests := []struct {
		name    string
		current model.Status
		action  model.Action
	}{
		{"approve twice", model.StatusPaymentPending, model.ActionApprove},
		{"confirm before approval", model.StatusPending, model.ActionConfirm},
		{"complete unconfirmed event", model.StatusPaymentPending, model.ActionCompleteEvent},
		{"review before event done", model.StatusConfirmed, model.ActionFinishReview},
		{"cancel after event done", model.StatusEventDone, model.ActionCancel},
		{"cancel completed", model.StatusCompleted, model.ActionCancel},
		{"cancel twice", model.StatusCancelled, model.ActionCancel},
		{"resurrect cancelled", model.StatusCancelled, model.ActionConfirm},
		{"unknown action", model.StatusPending, model.Action("teleport")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.Transition(tt.current, tt.action)

			assert.Error(t, err)
			assert.Equal(t, 422, failure.GetCode(err))
			assert.Equal(t, tt.current, got)
		})
	}
}
