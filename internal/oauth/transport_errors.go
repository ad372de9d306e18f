package oauth

import (
	"errors"
	"fmt"
)

var (
	errNon2xx        = errors.New("unexpected status")
	errNoAccessToken = errors.New("no access_token in response")
)

func errBody(code, desc string) error {
	if code == "" && desc == "" {
		return errNon2xx
	}
	return fmt.Errorf("%s %s", code, desc)
}
