package upstream

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/CyrilRPG/diploma/internal/config"
	"github.com/CyrilRPG/diploma/internal/core"
)

// New builds the identity verifier selected by the configuration.
func New(cfg config.UpstreamConfig) (core.IdentityVerifier, error) {
	switch cfg.Type {
	case GraphQLType:
		var conf GraphQLConfig
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Metadata:   nil,
			Result:     &conf,
			DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create decoder for graphql verifier: %w", err)
		}
		if err := decoder.Decode(cfg.Config); err != nil {
			return nil, fmt.Errorf("failed to decode config for graphql verifier: %w", err)
		}
		return NewGraphQLVerifier(conf)
	case StaticType:
		return NewStaticVerifier(), nil
	default:
		return nil, fmt.Errorf("unknown upstream verifier type '%s'", cfg.Type)
	}
}
