package membership

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(handler http.HandlerFunc) (*CRMMemberGate, *httptest.Server) {
	server := httptest.NewServer(handler)
	gate := NewCRMMemberGate(server.URL, 2*time.Second, nil, time.Minute)
	return gate, server
}

func TestHasActiveContract(t *testing.T) {
	var requestedPath string
	gate, server := newTestGate(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active": true}`))
	})
	defer server.Close()

	active, err := gate.HasActiveContract(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, "/api/customers/cust-1/contract", requestedPath)
}

func TestInactiveContractDenies(t *testing.T) {
	gate, server := newTestGate(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"active": false}`))
	})
	defer server.Close()

	active, err := gate.HasActiveContract(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestUnknownCustomerDeniesWithoutError(t *testing.T) {
	gate, server := newTestGate(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	active, err := gate.HasActiveContract(context.Background(), "cust-x")
	require.NoError(t, err)
	assert.False(t, active)
}

// A CRM fault must surface as an error, never as a silent denial: callers
// answer outages and denials with different messages.
func TestCRMFaultPropagates(t *testing.T) {
	gate, server := newTestGate(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := gate.HasActiveContract(context.Background(), "cust-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestCRMUnreachablePropagates(t *testing.T) {
	gate, server := newTestGate(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // connection refused from here on

	_, err := gate.HasActiveContract(context.Background(), "cust-1")
	require.Error(t, err)
}

func TestMalformedResponsePropagates(t *testing.T) {
	gate, server := newTestGate(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	defer server.Close()

	_, err := gate.HasActiveContract(context.Background(), "cust-1")
	require.Error(t, err)
}
