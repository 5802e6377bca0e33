// ABOUTME: Entity CRUD operations and the backup trigger
// ABOUTME: Generic over the entity schema; deal status filtering happens client-side
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"crmdesk/models"
)

// List fetches the records for a kind, applying the filter. Search and
// customer id are sent as query parameters. The backend does not support
// status filtering, so deal lists are fetched by search+customer and
// filtered by exact status match here, preserving server order.
func (c *Client) List(ctx context.Context, schema models.Schema, f models.Filter) ([]models.Record, error) {
	query := url.Values{}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if schema.CustomerFilter && f.CustomerID != "" {
		query.Set("customer_id", f.CustomerID)
	}

	raw, err := c.request(ctx, http.MethodGet, schema.Path, query, nil)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", schema.Singular, err)
	}

	if schema.StatusFilter && f.Status != "" {
		filtered := records[:0]
		for _, r := range records {
			if r.Str("status") == f.Status {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	return records, nil
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, schema models.Schema, id string) (models.Record, error) {
	raw, err := c.request(ctx, http.MethodGet, schema.Path+"/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRecord(schema, raw)
}

// Create persists a new record and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, schema models.Schema, record models.Record) (models.Record, error) {
	raw, err := c.request(ctx, http.MethodPost, schema.Path, nil, record)
	if err != nil {
		return nil, err
	}
	return decodeRecord(schema, raw)
}

// Update replaces an existing record's fields.
func (c *Client) Update(ctx context.Context, schema models.Schema, id string, record models.Record) (models.Record, error) {
	raw, err := c.request(ctx, http.MethodPut, schema.Path+"/"+id, nil, record)
	if err != nil {
		return nil, err
	}
	return decodeRecord(schema, raw)
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, schema models.Schema, id string) error {
	_, err := c.request(ctx, http.MethodDelete, schema.Path+"/"+id, nil, nil)
	return err
}

// Backup asks the backend to snapshot its data and returns the backend's
// confirmation message.
func (c *Client) Backup(ctx context.Context) (string, error) {
	raw, err := c.request(ctx, http.MethodPost, "/api/backup", nil, nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode backup response: %w", err)
	}
	return resp.Message, nil
}

func decodeRecord(schema models.Schema, raw json.RawMessage) (models.Record, error) {
	var record models.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", schema.Singular, err)
	}
	return record, nil
}
