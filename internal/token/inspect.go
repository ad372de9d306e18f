package token

// Convenience accessors over Validate, for callers that hold a raw token
// string and want a single claim. Each accessor re-validates; hot paths
// should call Validate once and keep the Claims.

// UserID returns the subject of a valid token.
func (e *Engine) UserID(tokenStr string) (string, error) {
	c, err := e.Validate(tokenStr)
	if err != nil {
		return "", err
	}
	return c.UserID, nil
}

// Email returns the email claim of a valid token. Refresh tokens yield an
// empty string.
func (e *Engine) Email(tokenStr string) (string, error) {
	c, err := e.Validate(tokenStr)
	if err != nil {
		return "", err
	}
	return c.Email, nil
}

// TokenType returns the type claim of a valid token.
func (e *Engine) TokenType(tokenStr string) (Type, error) {
	c, err := e.Validate(tokenStr)
	if err != nil {
		return "", err
	}
	return c.Type, nil
}

// IsAccessToken reports whether tokenStr is a valid access token. Any
// validation failure reports false.
func (e *Engine) IsAccessToken(tokenStr string) bool {
	t, err := e.TokenType(tokenStr)
	return err == nil && t == TypeAccess
}

// IsRefreshToken reports whether tokenStr is a valid refresh token.
func (e *Engine) IsRefreshToken(tokenStr string) bool {
	t, err := e.TokenType(tokenStr)
	return err == nil && t == TypeRefresh
}
