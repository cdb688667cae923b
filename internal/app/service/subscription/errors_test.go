package subscription

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrInsufficientCredits_IsWrapFriendly(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrInsufficientCredits)
	require.True(t, errors.Is(err, ErrInsufficientCredits))
}

func TestErrActiveSubscriptionExists_IsWrapFriendly(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrActiveSubscriptionExists)
	require.True(t, errors.Is(err, ErrActiveSubscriptionExists))
}
