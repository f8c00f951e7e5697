package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tmgear/internal/infra/backend"
	repo "tmgear/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productsJSON = `[
	{"id":1,"shopId":3,"productName":"Dome Tent","category":"Tents","price":12000,"imageUrl":"https://img/1.png","available":4},
	{"id":2,"shopId":null,"productName":"Lamp","category":"Lights","price":"1500.50","available":0}
]`

func newCatalogClient(t *testing.T) *backend.CatalogClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/all", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productsJSON))
	})
	mux.HandleFunc("/api/products/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"shopId":3,"productName":"Dome Tent","category":"Tents","price":12000}`))
	})
	mux.HandleFunc("/api/products/shop/3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"shopId":3,"productName":"Dome Tent","category":"Tents","price":12000}]`))
	})
	mux.HandleFunc("/api/products/500", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return backend.NewCatalogClient(backend.NewClient(srv.URL+"/api", 2*time.Second, zap.NewNop()))
}

func TestCatalogClient_ListAll(t *testing.T) {
	c := newCatalogClient(t)

	out, err := c.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Dome Tent", out[0].ProductName)
	assert.Equal(t, int64(3), *out[0].ShopID)
	assert.Equal(t, "12000", out[0].Price.String())
	assert.Nil(t, out[1].ShopID)
	assert.Equal(t, "1500.5", out[1].Price.String())
}

func TestCatalogClient_FindByID(t *testing.T) {
	c := newCatalogClient(t)

	p, err := c.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	_, err = c.FindByID(context.Background(), 2)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = c.FindByID(context.Background(), 500)
	var se *backend.StatusError
	assert.ErrorAs(t, err, &se)
}

func TestCatalogClient_ListByShop(t *testing.T) {
	c := newCatalogClient(t)

	out, err := c.ListByShop(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestCatalogClient_NotFoundDoesNotTrip(t *testing.T) {
	c := newCatalogClient(t)

	for i := 0; i < 10; i++ {
		_, err := c.FindByID(context.Background(), 404)
		assert.ErrorIs(t, err, repo.ErrNotFound)
	}

	_, err := c.FindByID(context.Background(), 1)
	assert.NoError(t, err)
}

func TestCatalogClient_OpensAfterServerErrors(t *testing.T) {
	c := newCatalogClient(t)

	for i := 0; i < 5; i++ {
		_, err := c.FindByID(context.Background(), 500)
		require.Error(t, err)
	}

	_, err := c.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsUnavailable(err))
}
