package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/money"
	"github.com/shopswift/marketplace/services/product-service/models"
	"github.com/shopswift/marketplace/services/product-service/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memProducts struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{byID: map[primitive.ObjectID]*models.Product{}}
}

func (m *memProducts) List(_ context.Context, category string, page, limit int) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Product
	for _, p := range m.byID {
		if category == "" || p.Category == category {
			all = append(all, *p)
		}
	}
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "category":
			p.Category = v.(string)
		case "price":
			p.Price = v.(money.Money)
		case "quantity":
			p.Quantity = v.(int)
		}
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	delete(m.byID, id)
	return ok, nil
}

func (m *memProducts) Reserve(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Quantity < qty {
		return nil, repository.ErrInsufficientStock
	}
	p.Quantity -= qty
	cp := *p
	return &cp, nil
}

func (m *memProducts) Release(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Quantity += qty
	cp := *p
	return &cp, nil
}

type recordingCache struct {
	mu          sync.Mutex
	entries     map[string]*models.Product
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string]*models.Product{}}
}

func (c *recordingCache) Get(_ context.Context, id string) (*models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[id]
	return p, ok
}

func (c *recordingCache) Set(_ context.Context, p *models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.ID.Hex()] = p
}

func (c *recordingCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
}

func seed(t *testing.T, repo *memProducts, qty int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Desk Lamp", Description: "Warm light", Price: money.MustParse("19.99"), Category: "home", Quantity: qty}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func codeOf(err error) int {
	return apperrors.As(err).Code
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(newMemProducts(), nil, nil)
	ctx := context.Background()

	valid := ProductInput{Name: "Mug", Description: "Ceramic", Price: money.MustParse("4.50"), Category: "kitchen"}
	p, err := svc.CreateProduct(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)

	cases := map[string]func(in *ProductInput){
		"zero price":        func(in *ProductInput) { in.Price = money.Zero },
		"negative quantity": func(in *ProductInput) { in.Quantity = -1 },
		"missing name":      func(in *ProductInput) { in.Name = " " },
		"missing category":  func(in *ProductInput) { in.Category = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := svc.CreateProduct(ctx, in)
			assert.Equal(t, http.StatusBadRequest, codeOf(err))
		})
	}
}

func TestGetProductReadThrough(t *testing.T) {
	repo := newMemProducts()
	c := newRecordingCache()
	svc := NewProductService(repo, c, nil)
	ctx := context.Background()
	p := seed(t, repo, 5)

	got, err := svc.GetProduct(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Name)
	_, cached := c.Get(ctx, p.ID.Hex())
	assert.True(t, cached)

	_, err = svc.GetProduct(ctx, "not-an-id")
	assert.Equal(t, http.StatusNotFound, codeOf(err))
	_, err = svc.GetProduct(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMutationsEvictCache(t *testing.T) {
	repo := newMemProducts()
	c := newRecordingCache()
	svc := NewProductService(repo, c, nil)
	ctx := context.Background()
	p := seed(t, repo, 5)
	id := p.ID.Hex()

	_, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)

	price := money.MustParse("24.00")
	updated, err := svc.PatchProduct(ctx, id, ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equals(price))
	assert.Equal(t, "Desk Lamp", updated.Name)
	_, cached := c.Get(ctx, id)
	assert.False(t, cached)

	_, err = svc.ReserveStock(ctx, id, 1)
	require.NoError(t, err)
	_, err = svc.ReleaseStock(ctx, id, 1)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, id))

	assert.Equal(t, []string{id, id, id, id}, c.invalidated)
}

func TestPatchProduct(t *testing.T) {
	repo := newMemProducts()
	svc := NewProductService(repo, nil, nil)
	ctx := context.Background()
	p := seed(t, repo, 5)

	_, err := svc.PatchProduct(ctx, p.ID.Hex(), ProductPatch{})
	assert.Equal(t, http.StatusBadRequest, codeOf(err))

	neg := -3
	_, err = svc.PatchProduct(ctx, p.ID.Hex(), ProductPatch{Quantity: &neg})
	assert.Equal(t, http.StatusBadRequest, codeOf(err))

	qty := 9
	_, err = svc.PatchProduct(ctx, primitive.NewObjectID().Hex(), ProductPatch{Quantity: &qty})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := newMemProducts()
	svc := NewProductService(repo, nil, nil)
	ctx := context.Background()
	p := seed(t, repo, 1)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID.Hex()))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID.Hex()), ErrProductNotFound)
}

func TestReserveStock(t *testing.T) {
	repo := newMemProducts()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	svc := NewProductService(repo, nil, metrics)
	ctx := context.Background()
	p := seed(t, repo, 3)

	t.Run("returns price and remaining stock", func(t *testing.T) {
		got, err := svc.ReserveStock(ctx, p.ID.Hex(), 2)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Quantity)
		assert.True(t, got.Price.Equals(money.MustParse("19.99")))
	})

	t.Run("insufficient stock leaves quantity alone", func(t *testing.T) {
		_, err := svc.ReserveStock(ctx, p.ID.Hex(), 2)
		assert.ErrorIs(t, err, ErrStockConflict)
		assert.Equal(t, http.StatusConflict, codeOf(err))

		current, _ := repo.FindByID(ctx, p.ID)
		assert.Equal(t, 1, current.Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.ReserveStock(ctx, primitive.NewObjectID().Hex(), 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("quantity must be positive", func(t *testing.T) {
		_, err := svc.ReserveStock(ctx, p.ID.Hex(), 0)
		assert.Equal(t, http.StatusBadRequest, codeOf(err))
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.stockReservations.WithLabelValues("reserved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.stockReservations.WithLabelValues("insufficient")))
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	repo := newMemProducts()
	svc := NewProductService(repo, nil, nil)
	ctx := context.Background()
	p := seed(t, repo, 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ReserveStock(ctx, p.ID.Hex(), 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	current, _ := repo.FindByID(ctx, p.ID)
	assert.Equal(t, 0, current.Quantity)
}
