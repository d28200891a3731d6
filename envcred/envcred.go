// Package envcred resolves a client credential from process environment
// variables. It is a collaborator of the marshaling engine's consumers, not
// of the engine itself: three named variables either yield a credential or
// the credential is reported unavailable.
package envcred

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joeshaw/envdecode"
)

// ErrUnavailable reports that one or more of the credential variables is not
// set. Callers typically fall through to another credential source.
var ErrUnavailable = errors.New("envcred: environment credential unavailable")

// Credential is an environment-sourced client identity.
type Credential struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

type environment struct {
	TenantID     string `env:"WIREMAP_TENANT_ID,required"`
	ClientID     string `env:"WIREMAP_CLIENT_ID,required"`
	ClientSecret string `env:"WIREMAP_CLIENT_SECRET,required"`
}

// FromEnvironment reads WIREMAP_TENANT_ID, WIREMAP_CLIENT_ID and
// WIREMAP_CLIENT_SECRET. All three must be present.
func FromEnvironment() (*Credential, error) {
	var env environment
	if err := envdecode.Decode(&env); err != nil {
		slog.Debug("environment credential not configured", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Credential{
		TenantID:     env.TenantID,
		ClientID:     env.ClientID,
		ClientSecret: env.ClientSecret,
	}, nil
}
