// Package identity looks up the caller's name on the identity provider the
// skill account is linked to.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultGraphURL = "https://graph.microsoft.com/v1.0"
	defaultTimeout  = 5 * time.Second
)

var ErrNoName = errors.New("identity: profile has no name")

type profile struct {
	GivenName   string `json:"givenName"`
	DisplayName string `json:"displayName"`
}

// GraphClient reads the signed in user's profile from a Microsoft Graph
// compatible endpoint.
type GraphClient struct {
	client *resty.Client
}

func NewGraphClient(baseURL string) *GraphClient {
	if baseURL == "" {
		baseURL = DefaultGraphURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	return &GraphClient{client: client}
}

// LookupDisplayName returns the given name of the token's owner, or the
// display name when no given name is set.
func (c *GraphClient) LookupDisplayName(ctx context.Context, accessToken string) (string, error) {
	var p profile
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&p).
		Get("/me")
	if err != nil {
		return "", fmt.Errorf("identity: request profile: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("identity: request profile: unexpected status %d", resp.StatusCode())
	}

	if name := strings.TrimSpace(p.GivenName); name != "" {
		return name, nil
	}
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name, nil
	}
	return "", ErrNoName
}
