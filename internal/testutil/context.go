package testutil

import (
	"context"

	"github.com/billhive/billhive/internal/types"
)

const (
	// TestAccountID is the account used in tests
	TestAccountID = "acc_test_owner"
	// TestUserID is the user used in tests
	TestUserID = "user_test"
)

// SetupContext creates a context with the test account and user
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetAccountID(ctx, TestAccountID)
	ctx = types.SetUserID(ctx, TestUserID)
	return ctx
}
