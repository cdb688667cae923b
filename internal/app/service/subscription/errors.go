package subscription

import "errors"

var (
	// ErrActiveSubscriptionExists blocks checkout while the user already
	// holds a pending or active unexpired subscription.
	ErrActiveSubscriptionExists = errors.New("an active or pending subscription already exists")

	// ErrInsufficientCredits means the ledger cannot cover one more
	// question; no upstream call is made and nothing mutates.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrNotPending guards confirm/cancel: both transitions require the
	// pending state.
	ErrNotPending = errors.New("subscription is not pending")

	// ErrPlanNotFound means the requested plan does not exist or is
	// inactive.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrNoSubscription means the user has no subscription record at all.
	ErrNoSubscription = errors.New("no subscription found")

	// ErrNoActiveSubscription means the latest subscription does not grant
	// access right now (pending, cancelled, or past its end date).
	ErrNoActiveSubscription = errors.New("no active subscription")
)
