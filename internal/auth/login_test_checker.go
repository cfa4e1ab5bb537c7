package auth

import "context"

// LoginTestChecker is used in handler and middleware unit tests
// instead of a real redis backed checker.
type LoginTestChecker struct {
	// Token2UserID maps known tokens to logged in user IDs
	Token2UserID map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Token2UserID: make(map[string]string),
	}
}

func (tc *LoginTestChecker) GetLoggedUser(_ context.Context, token string) (string, error) {
	userID, ok := tc.Token2UserID[token]
	if !ok {
		return "", ErrNotLoggedIn
	}
	return userID, nil
}
