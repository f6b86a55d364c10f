package productclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/ordering/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:    server.URL + "/",
		Timeout:    time.Second,
		MaxRetries: 3,
		RetryStep:  time.Millisecond,
	}, nil)
	require.NoError(t, err)
	return client, &calls
}

func TestClient_GetByID(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/1", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":1,"description":"P1","price":"50.00","stock":5}}`))
	})

	snapshot, err := client.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), snapshot.ID)
	assert.Equal(t, "P1", snapshot.Description)
	assert.True(t, decimal.NewFromInt(50).Equal(snapshot.Price))
	assert.Equal(t, 5, snapshot.Stock)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"missing"}}`))
	})

	snapshot, err := client.GetByID(context.Background(), 9)
	assert.Nil(t, snapshot)
	assert.True(t, shared.IsNotFound(err))
	assert.Contains(t, err.Error(), "ProductSnapshot")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":2,"description":"P2","price":"10","stock":1}}`))
	})

	snapshot, err := client.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), snapshot.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ExhaustedRetriesIsTransportError(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetByID(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrTransport))
	assert.Equal(t, int32(4), calls.Load(), "one attempt plus three retries")
}

func TestClient_MalformedBodyIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.GetByID(context.Background(), 4)
	assert.True(t, errors.Is(err, shared.ErrTransport))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cancel()
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetByID(ctx, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLinearBackOff(t *testing.T) {
	b := &LinearBackOff{Step: 200 * time.Millisecond}
	assert.Equal(t, 200*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 400*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 600*time.Millisecond, b.NextBackOff())

	b.Reset()
	assert.Equal(t, 200*time.Millisecond, b.NextBackOff())
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{BaseURL: "http://x", MaxRetries: -1}.Validate())
	assert.NoError(t, Config{BaseURL: "http://x", MaxRetries: 3}.Validate())
}
