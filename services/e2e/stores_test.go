package e2e

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopswift/marketplace/services/common/money"
	ordermodels "github.com/shopswift/marketplace/services/order-service/models"
	orderrepo "github.com/shopswift/marketplace/services/order-service/repository"
	paymentmodels "github.com/shopswift/marketplace/services/payment-service/models"
	paymentrepo "github.com/shopswift/marketplace/services/payment-service/repository"
	productmodels "github.com/shopswift/marketplace/services/product-service/models"
	productrepo "github.com/shopswift/marketplace/services/product-service/repository"
	usermodels "github.com/shopswift/marketplace/services/user-service/models"
	userrepo "github.com/shopswift/marketplace/services/user-service/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userStore struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*usermodels.User
}

func (s *userStore) Create(_ context.Context, u *usermodels.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return userrepo.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*usermodels.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userrepo.ErrNotFound
}

func (s *userStore) FindByID(_ context.Context, id primitive.ObjectID) (*usermodels.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) ExistsForOther(context.Context, string, string, primitive.ObjectID) (bool, error) {
	return false, nil
}

func (s *userStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, _ bson.M) (*usermodels.User, error) {
	return s.FindByID(ctx, id)
}

type productStore struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*productmodels.Product
}

func (s *productStore) quantity(id primitive.ObjectID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id].Quantity
}

func (s *productStore) List(_ context.Context, category string, page, limit int) ([]productmodels.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []productmodels.Product
	for _, p := range s.byID {
		if category == "" || p.Category == category {
			all = append(all, *p)
		}
	}
	return all, int64(len(all)), nil
}

func (s *productStore) FindByID(_ context.Context, id primitive.ObjectID) (*productmodels.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, productrepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *productStore) Create(_ context.Context, p *productmodels.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

// Update applies the price field, the only one the checkout flow edits.
func (s *productStore) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*productmodels.Product, error) {
	s.mu.Lock()
	p, ok := s.byID[id]
	if ok {
		if price, set := updates["price"].(money.Money); set {
			p.Price = price
		}
	}
	s.mu.Unlock()
	return s.FindByID(ctx, id)
}

func (s *productStore) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok, nil
}

func (s *productStore) Reserve(_ context.Context, id primitive.ObjectID, qty int) (*productmodels.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, productrepo.ErrNotFound
	}
	if p.Quantity < qty {
		return nil, productrepo.ErrInsufficientStock
	}
	p.Quantity -= qty
	cp := *p
	return &cp, nil
}

func (s *productStore) Release(_ context.Context, id primitive.ObjectID, qty int) (*productmodels.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, productrepo.ErrNotFound
	}
	p.Quantity += qty
	cp := *p
	return &cp, nil
}

type orderStore struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*ordermodels.Order
}

func (s *orderStore) Create(_ context.Context, o *ordermodels.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	cp := *o
	s.byID[o.ID] = &cp
	return nil
}

func (s *orderStore) FindByID(_ context.Context, id primitive.ObjectID) (*ordermodels.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *orderStore) FindByIDAndUserID(ctx context.Context, id primitive.ObjectID, userID string) (*ordermodels.Order, error) {
	o, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, orderrepo.ErrNotFound
	}
	return o, nil
}

func (s *orderStore) FindByUserID(_ context.Context, userID string, _, _ int) ([]ordermodels.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mine []ordermodels.Order
	for _, o := range s.byID {
		if o.UserID == userID {
			mine = append(mine, *o)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	return mine, int64(len(mine)), nil
}

func (s *orderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to ordermodels.Status) (*ordermodels.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok || o.Status != from {
		return nil, orderrepo.ErrStatusChanged
	}
	o.Status = to
	cp := *o
	return &cp, nil
}

type paymentStore struct {
	mu       sync.Mutex
	payments []paymentmodels.Payment
}

func (s *paymentStore) CreatePayment(_ context.Context, p *paymentmodels.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.payments {
		if existing.TransactionID == p.TransactionID {
			return paymentrepo.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	s.payments = append(s.payments, *p)
	return nil
}

func (s *paymentStore) FindLatestByOrderAndUser(_ context.Context, orderID, userID string) (*paymentmodels.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.payments) - 1; i >= 0; i-- {
		if p := s.payments[i]; p.OrderID == orderID && p.UserID == userID {
			return &p, nil
		}
	}
	return nil, paymentrepo.ErrNotFound
}

func (s *paymentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}
