package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusAccepted, OrderStatusAwaitingValidation,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed, OrderStatusResolved,
	} {
		assert.True(t, s.IsValid(), "status %s", s)
	}

	assert.False(t, OrderStatus("refunded").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusAccepted},
		{OrderStatusAccepted, OrderStatusAwaitingValidation},
		{OrderStatusAccepted, OrderStatusCancelled},
		{OrderStatusAwaitingValidation, OrderStatusCompleted},
		{OrderStatusAwaitingValidation, OrderStatusDisputed},
		{OrderStatusDisputed, OrderStatusResolved},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusAwaitingValidation},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusAccepted, OrderStatusCompleted},
		{OrderStatusAwaitingValidation, OrderStatusCancelled},
		{OrderStatusCompleted, OrderStatusDisputed},
		{OrderStatusCancelled, OrderStatusAccepted},
		{OrderStatusResolved, OrderStatusCompleted},
		{OrderStatusDisputed, OrderStatusCompleted},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_TerminalStatesHaveNoExits(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusAccepted, OrderStatusAwaitingValidation,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed, OrderStatusResolved,
	}
	for _, terminal := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled, OrderStatusResolved} {
		for _, to := range all {
			assert.False(t, terminal.CanTransitionTo(to), "%s -> %s", terminal, to)
		}
	}
}
