package client

import (
	"context"
	"fmt"

	"github.com/CyrilRPG/diploma/internal/api"
	"github.com/CyrilRPG/diploma/internal/core"
)

// ListAuditsOpts filters the audit entries returned by ListAudits.
type ListAuditsOpts struct {
	Identity    string
	Fingerprint string
	Limit       uint
}

// ListAudits retrieves the latest audit entries from the server.
func (c *Client) ListAudits(ctx context.Context, opts ListAuditsOpts) ([]core.AuditEntry, string, error) {
	ub := c.url().setPath(api.ListAuditsRoute)
	if opts.Identity != "" {
		ub.addQueryParam("identity", opts.Identity)
	}
	if opts.Fingerprint != "" {
		ub.addQueryParam("fingerprint", opts.Fingerprint)
	}
	if opts.Limit > 0 {
		ub.addQueryParam("limit", opts.Limit)
	}

	var resp []core.AuditEntry
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}

// ListSessions retrieves the current session entries keyed by identity.
func (c *Client) ListSessions(ctx context.Context) (map[string]core.SessionEntry, error) {
	var resp map[string]core.SessionEntry
	_, err := c.get(ctx, c.url().
		setPath(api.ListSessionsRoute).
		build(), &resp)
	return resp, err
}

// ListRevocations retrieves the revoked credential fingerprints.
func (c *Client) ListRevocations(ctx context.Context) (*api.RevocationsResponse, error) {
	var resp api.RevocationsResponse
	_, err := c.get(ctx, c.url().
		setPath(api.ListRevocationsRoute).
		build(), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevokeToken permanently revokes a credential.
func (c *Client) RevokeToken(ctx context.Context, credential string) (string, error) {
	var resp api.RevokeResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.RevokeTokenRoute).
		build(), api.RevokePayload{Token: credential}, &resp)
	if err != nil {
		return correlation, err
	}
	if resp.Status != "revoked" {
		return correlation, fmt.Errorf("unexpected response status: %s", resp.Status)
	}
	return correlation, nil
}
