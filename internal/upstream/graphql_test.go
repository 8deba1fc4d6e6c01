package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CyrilRPG/diploma/internal/config"
)

func TestGraphQLVerifier_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		want     string
		wantErr  bool
		wantXTok string
	}{
		{
			name: "String Identity",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"me": map[string]any{"id": "user-1"}},
				})
			},
			want: "user-1",
		},
		{
			name: "Numeric Identity Normalized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"me": map[string]any{"id": 1234}},
				})
			},
			want: "1234",
		},
		{
			name: "GraphQL Errors",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"errors": []map[string]any{{"message": "not authenticated"}},
				})
			},
			wantErr: true,
		},
		{
			name: "Missing Identity",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"me": map[string]any{}},
				})
			},
			wantErr: true,
		},
		{
			name: "Upstream 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: true,
		},
		{
			name: "Garbage Body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotToken = r.Header.Get("X-Token")
				tt.handler(w, r)
			}))
			defer srv.Close()

			v, err := NewGraphQLVerifier(GraphQLConfig{Endpoint: srv.URL})
			if err != nil {
				t.Fatalf("NewGraphQLVerifier() error = %v", err)
			}

			got, err := v.Resolve(context.Background(), "the-credential")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if gotToken != "the-credential" {
				t.Errorf("credential must travel in X-Token, got %q", gotToken)
			}
		})
	}
}

func TestGraphQLVerifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close() // connection refused from here on

	v, err := NewGraphQLVerifier(GraphQLConfig{Endpoint: endpoint})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Resolve(context.Background(), "tok"); err == nil {
		t.Error("unreachable endpoint must be an error")
	}
}

func TestNewGraphQLVerifier_RequiresEndpoint(t *testing.T) {
	if _, err := NewGraphQLVerifier(GraphQLConfig{}); err == nil {
		t.Error("missing endpoint must be an error")
	}
}

func TestNew_BuildsConfiguredVerifier(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.UpstreamConfig
		wantErr bool
	}{
		{
			name: "GraphQL",
			cfg: config.UpstreamConfig{
				Type: GraphQLType,
				Config: map[string]any{
					"endpoint": "https://idp.example.com/graphql",
					"timeout":  "5s",
				},
			},
		},
		{
			name: "Static",
			cfg:  config.UpstreamConfig{Type: StaticType},
		},
		{
			name:    "Unknown Type",
			cfg:     config.UpstreamConfig{Type: "ldap"},
			wantErr: true,
		},
		{
			name:    "GraphQL Without Endpoint",
			cfg:     config.UpstreamConfig{Type: GraphQLType},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v == nil {
				t.Error("New() returned a nil verifier without error")
			}
		})
	}
}

func TestStaticVerifier_Resolve(t *testing.T) {
	v := NewStaticVerifier()

	// base64url("{"id":"user-1"}") with a header segment
	got, err := v.Resolve(context.Background(), "h.eyJpZCI6InVzZXItMSJ9")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "user-1" {
		t.Errorf("Resolve() = %q, want %q", got, "user-1")
	}

	if _, err := v.Resolve(context.Background(), "garbage"); err == nil {
		t.Error("undecodable credential must be an error")
	}
}
