// ABOUTME: Tests for the gateway request core
// ABOUTME: Covers error normalization, single notification, headers, and payload rules
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"crmdesk/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func newTestClient(server *httptest.Server, notifier Notifier) *Client {
	return NewClient(Options{
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
		Notifier: notifier,
	})
}

func TestRequestSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[{"id":"c1","name":"Acme"}]`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)
	records, err := client.List(context.Background(), models.SchemaFor(models.KindCustomers), models.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].Str("name"))
}

func TestErrorFieldExtracted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Customer not found"}`))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := newTestClient(server, notifier)

	_, err := client.Get(context.Background(), models.SchemaFor(models.KindCustomers), "missing")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "Customer not found", reqErr.Message)

	// The failure must be reported exactly once.
	assert.Equal(t, []string{"Customer not found"}, notifier.all())
}

func TestErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>panic</html>`))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := newTestClient(server, notifier)

	_, err := client.Get(context.Background(), models.SchemaFor(models.KindDeals), "d1")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, genericErrorMessage, reqErr.Message)
	assert.Equal(t, []string{genericErrorMessage}, notifier.all())
}

func TestTransportFailureNotifiesOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	notifier := &recordingNotifier{}
	client := newTestClient(server, notifier)

	_, err := client.List(context.Background(), models.SchemaFor(models.KindContacts), models.Filter{})
	require.Error(t, err)
	assert.Equal(t, []string{genericErrorMessage}, notifier.all())
}

func TestCanceledRequestDoesNotNotify(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	notifier := &recordingNotifier{}
	client := newTestClient(server, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.List(ctx, models.SchemaFor(models.KindCustomers), models.Filter{})
	require.Error(t, err)
	assert.Empty(t, notifier.all())
}

func TestBodyOnlyForPayloadMethods(t *testing.T) {
	var gets, posts int
	var postBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets++
			assert.Zero(t, r.ContentLength)
			_, _ = w.Write([]byte(`[]`))
		case http.MethodPost:
			posts++
			require.NoError(t, json.NewDecoder(r.Body).Decode(&postBody))
			_, _ = w.Write([]byte(`{"id":"c1"}`))
		}
	}))
	defer server.Close()

	client := newTestClient(server, nil)
	schema := models.SchemaFor(models.KindCustomers)

	_, err := client.List(context.Background(), schema, models.Filter{})
	require.NoError(t, err)

	_, err = client.Create(context.Background(), schema, models.Record{"name": "Acme"})
	require.NoError(t, err)

	assert.Equal(t, 1, gets)
	assert.Equal(t, 1, posts)
	assert.Equal(t, "Acme", postBody["name"])
}

func TestBasicAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(Options{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "secret",
	})
	_, err := client.List(context.Background(), models.SchemaFor(models.KindCustomers), models.Filter{})
	require.NoError(t, err)
}
