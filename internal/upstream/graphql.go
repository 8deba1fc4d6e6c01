package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/CyrilRPG/diploma/internal/core"
	"github.com/CyrilRPG/diploma/internal/token"
)

const GraphQLType = "graphql"

// identityQuery asks the identity provider who the presented credential
// belongs to.
const identityQuery = `{ me { id } }`

var _ core.IdentityVerifier = (*GraphQLVerifier)(nil)

// GraphQLVerifier resolves credentials against a GraphQL identity
// endpoint. The raw credential travels in the X-Token header; a usable
// response carries data.me.id.
type GraphQLVerifier struct {
	endpoint   string
	httpClient *http.Client
}

// GraphQLConfig holds the settings of a GraphQL identity endpoint.
type GraphQLConfig struct {
	// Endpoint is the URL of the identity provider's GraphQL API.
	Endpoint string `mapstructure:"endpoint"`

	// Timeout bounds each upstream call. Defaults to 10 seconds.
	Timeout time.Duration `mapstructure:"timeout"`
}

func NewGraphQLVerifier(cfg GraphQLConfig) (*GraphQLVerifier, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("graphql verifier: endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GraphQLVerifier{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type graphQLResponse struct {
	Data struct {
		Me struct {
			ID any `json:"id"`
		} `json:"me"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Resolve presents the credential upstream and extracts the canonical
// identity. Every failure mode (transport, status, GraphQL errors, empty
// identity) is an error; the caller treats those as service-side problems,
// never as authorization rejections.
func (v *GraphQLVerifier) Resolve(ctx context.Context, credential string) (string, error) {
	body, err := json.Marshal(map[string]string{"query": identityQuery})
	if err != nil {
		return "", fmt.Errorf("encoding identity query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Token", credential)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var payload graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding identity response: %w", err)
	}
	if len(payload.Errors) > 0 {
		return "", fmt.Errorf("identity provider error: %s", payload.Errors[0].Message)
	}

	identity := token.NormalizeID(payload.Data.Me.ID)
	if identity == "" {
		return "", fmt.Errorf("identity provider response carries no identity")
	}
	return identity, nil
}
