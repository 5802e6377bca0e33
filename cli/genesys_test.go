// ABOUTME: Tests for the Genesys passthrough CLI commands
// ABOUTME: Covers single-record fetches and the raw JSON contact create/update
package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/models"
)

func TestGenesysShowCommand(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"r1","name":"Remote"}`))
	}))
	defer server.Close()

	client := newClient(server)
	for _, collection := range []string{"user", "contact", "interaction"} {
		out := captureStdout(t, func() error {
			return GenesysShowCommand(client, collection, []string{"r1"})
		})
		assert.Contains(t, out, `"name": "Remote"`)
	}

	assert.Equal(t, []string{
		"/api/genesys/users/r1",
		"/api/genesys/contacts/r1",
		"/api/genesys/interactions/r1",
	}, paths)
}

func TestGenesysShowCommandRequiresID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	err := GenesysShowCommand(newClient(server), "user", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user id is required")
}

func TestGenesysCreateContactCommand(t *testing.T) {
	var method, path string
	var body models.Record
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id":"gc1"}`))
	}))
	defer server.Close()

	out := captureStdout(t, func() error {
		return GenesysCreateContactCommand(newClient(server), []string{
			"--data", `{"firstName":"Ada"}`,
		})
	})

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/genesys/contacts", path)
	assert.Equal(t, "Ada", body.Str("firstName"))
	assert.Contains(t, out, `"id": "gc1"`)
}

func TestGenesysCreateContactRejectsBadJSON(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	err := GenesysCreateContactCommand(newClient(server), []string{"--data", "{not json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")

	err = GenesysCreateContactCommand(newClient(server), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--data is required")

	assert.Zero(t, requests)
}

func TestGenesysUpdateContactCommand(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"id":"gc1","firstName":"Joan"}`))
	}))
	defer server.Close()

	out := captureStdout(t, func() error {
		return GenesysUpdateContactCommand(newClient(server), []string{
			"--data", `{"firstName":"Joan"}`, "gc1",
		})
	})

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/genesys/contacts/gc1", path)
	assert.Contains(t, out, `"firstName": "Joan"`)

	err := GenesysUpdateContactCommand(newClient(server), []string{"--data", `{}`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact id is required")
}
