package api

import "context"

// GetAccountInfo retrieves the account owning the credentials, including
// API usage quotas.
func (s AccountsService) GetAccountInfo(ctx context.Context) (Result, error) {
	return s.genericRequest(ctx, request{action: ActionGetAccountInfo})
}
