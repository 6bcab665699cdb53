package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopswift/marketplace/services/common/client"
	"github.com/shopswift/marketplace/services/common/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderClient(t *testing.T) {
	var patched map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer svc", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/orders/o1":
			_, _ = w.Write([]byte(`{"_id":"o1","userId":"u1","totalAmount":"39.98","status":"pending"}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/orders/o1/status":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Order not found"}`))
		}
	}))
	defer srv.Close()

	oc := NewOrderClient(srv.URL, "svc", time.Second)

	order, err := oc.GetOrder(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "u1", order.UserID)
	assert.True(t, order.TotalAmount.Equals(money.MustParse("39.98")))

	_, err = oc.GetOrder(context.Background(), "missing")
	assert.True(t, client.HasStatus(err, http.StatusNotFound))

	require.NoError(t, oc.UpdateStatus(context.Background(), "o1", "processing"))
	assert.Equal(t, map[string]string{"status": "processing"}, patched)
}

func TestOrderClientEscapesOrderID(t *testing.T) {
	var paths, queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"_id":"x","userId":"u1","totalAmount":"1","status":"pending"}`))
	}))
	defer srv.Close()

	oc := NewOrderClient(srv.URL, "svc", time.Second)
	_, err := oc.GetOrder(context.Background(), "o1?x=")
	require.NoError(t, err)
	require.NoError(t, oc.UpdateStatus(context.Background(), "o1?x=", "processing"))

	assert.Equal(t, []string{"/orders/o1?x=", "/orders/o1?x=/status"}, paths)
	assert.Equal(t, []string{"", ""}, queries)
}
