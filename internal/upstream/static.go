package upstream

import (
	"context"
	"fmt"

	"github.com/CyrilRPG/diploma/internal/core"
	"github.com/CyrilRPG/diploma/internal/token"
)

const StaticType = "static"

var _ core.IdentityVerifier = (*StaticVerifier)(nil)

// StaticVerifier resolves every credential to its own claims identity.
// It exists for local development and smoke tests where no identity
// provider is reachable; never use it in production.
type StaticVerifier struct{}

func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{}
}

func (v *StaticVerifier) Resolve(_ context.Context, credential string) (string, error) {
	claims := token.Decode(credential)
	if claims == nil {
		return "", fmt.Errorf("static verifier: undecodable credential")
	}
	identity := claims.Identity()
	if identity == "" {
		return "", fmt.Errorf("static verifier: credential carries no identity")
	}
	return identity, nil
}
