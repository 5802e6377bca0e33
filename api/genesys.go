// ABOUTME: Opaque passthrough to the backend's Genesys Cloud endpoints
// ABOUTME: Payloads are relayed as raw JSON; the remote schema is not re-modeled here
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

func pageQuery(limit, page int) url.Values {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("page", fmt.Sprintf("%d", page))
	return q
}

// GenesysStatus reports whether the backend's Genesys integration is
// configured and reachable.
func (c *Client) GenesysStatus(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/status", nil, nil)
}

func (c *Client) GenesysUsers(ctx context.Context, limit, page int) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/users", pageQuery(limit, page), nil)
}

func (c *Client) GenesysUser(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/users/"+userID, nil, nil)
}

func (c *Client) GenesysContacts(ctx context.Context, limit, page int) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/contacts", pageQuery(limit, page), nil)
}

func (c *Client) GenesysContact(ctx context.Context, contactID string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/contacts/"+contactID, nil, nil)
}

func (c *Client) CreateGenesysContact(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "/api/genesys/contacts", nil, data)
}

func (c *Client) UpdateGenesysContact(ctx context.Context, contactID string, data json.RawMessage) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPut, "/api/genesys/contacts/"+contactID, nil, data)
}

// ImportGenesysContact copies one remote contact into the CRM.
func (c *Client) ImportGenesysContact(ctx context.Context, contactID string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "/api/genesys/import/contact/"+contactID, nil, nil)
}

// ImportAllGenesysContacts copies up to limit remote contacts into the CRM.
func (c *Client) ImportAllGenesysContacts(ctx context.Context, limit int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	return c.request(ctx, http.MethodPost, "/api/genesys/import/contacts", q, nil)
}

// SyncContactsToGenesys pushes CRM contacts to the remote side.
func (c *Client) SyncContactsToGenesys(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "/api/genesys/sync/contacts", nil, nil)
}

func (c *Client) GenesysInteractions(ctx context.Context, limit, page int) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/interactions", pageQuery(limit, page), nil)
}

func (c *Client) GenesysInteraction(ctx context.Context, interactionID string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/interactions/"+interactionID, nil, nil)
}

// RecordGenesysInteraction attaches a remote interaction to a customer.
func (c *Client) RecordGenesysInteraction(ctx context.Context, interactionID, customerID string) (json.RawMessage, error) {
	body := map[string]string{"customer_id": customerID}
	return c.request(ctx, http.MethodPost, "/api/genesys/interactions/"+interactionID+"/record", nil, body)
}

func (c *Client) GenesysQueues(ctx context.Context, limit, page int) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "/api/genesys/queues", pageQuery(limit, page), nil)
}
