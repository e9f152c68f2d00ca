// Package keyring stores the Slack tokens used to load a live workspace
// directory.
package keyring

import (
	"errors"
	"os"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/m96-chan/mentio/internal/consts"
)

const (
	userTokenKey = "user_token"
	appTokenKey  = "app_token"

	userTokenEnv = "MENTIO_USER_TOKEN"
	appTokenEnv  = "MENTIO_APP_TOKEN"
)

// GetUserToken returns the user token from the MENTIO_USER_TOKEN env var,
// falling back to the system keyring.
func GetUserToken() (string, error) {
	return get(userTokenEnv, userTokenKey)
}

// GetAppToken returns the app-level token from the MENTIO_APP_TOKEN env var,
// falling back to the system keyring.
func GetAppToken() (string, error) {
	return get(appTokenEnv, appTokenKey)
}

// SetUserToken stores the user token in the system keyring.
func SetUserToken(token string) error {
	return gokeyring.Set(consts.Name, userTokenKey, token)
}

// SetAppToken stores the app-level token in the system keyring.
func SetAppToken(token string) error {
	return gokeyring.Set(consts.Name, appTokenKey, token)
}

// DeleteTokens removes both tokens from the system keyring. Missing
// entries are not an error.
func DeleteTokens() error {
	var errs []error
	for _, key := range []string{userTokenKey, appTokenKey} {
		if err := gokeyring.Delete(consts.Name, key); err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tokens returns the stored user and app tokens. A token that was never
// stored is returned empty without error.
func Tokens() (user, app string, err error) {
	user, err = GetUserToken()
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return "", "", err
	}
	app, err = GetAppToken()
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return "", "", err
	}
	return user, app, nil
}

func get(env, key string) (string, error) {
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	return gokeyring.Get(consts.Name, key)
}
