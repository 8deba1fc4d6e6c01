package client

import (
	"context"

	"github.com/CyrilRPG/diploma/internal/api"
	"github.com/CyrilRPG/diploma/internal/core"
)

// Validate runs the authorization decision for a credential.
// A Result with OK=false is a rejection; an error means the decision could
// not be made server-side.
func (c *Client) Validate(ctx context.Context, credential string) (*core.Result, error) {
	var result core.Result
	_, err := c.get(ctx, c.url().
		setPath(api.ValidateRoute).
		addQueryParam("token", credential).
		build(), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateLink runs the authorization decision for a link token.
func (c *Client) ValidateLink(ctx context.Context, link string) (*core.Result, error) {
	var result core.Result
	_, err := c.get(ctx, c.url().
		setPath(api.ValidateRoute).
		addQueryParam("link", link).
		build(), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateLink mints a link token for a credential.
func (c *Client) GenerateLink(ctx context.Context, credential string) (string, error) {
	var resp api.GenerateLinkResponse
	_, err := c.get(ctx, c.url().
		setPath(api.GenerateLinkRoute).
		addQueryParam("token", credential).
		build(), &resp)
	if err != nil {
		return "", err
	}
	if !resp.OK {
		return "", APIError{Message: resp.Reason}
	}
	return resp.LinkToken, nil
}
