package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart operations behind the HTTP surface. Every call
// rehydrates the store for the caller's cart token, applies the mutation and
// returns the resulting cart.
type Service interface {
	Get(ctx context.Context, token string) (*CartDTO, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*CartDTO, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, token string) (*CartDTO, error)
}

type service struct {
	storage  StorageFactory
	products productLoader
	logg     *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService builds a cart service backed by the provided stack.
func NewService(storage StorageFactory, products productLoader, logg *logger.Logger) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage factory required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		storage:  storage,
		products: products,
		logg:     logg,
		locks:    map[string]*sync.Mutex{},
	}, nil
}

func (s *service) Get(ctx context.Context, token string) (*CartDTO, error) {
	return s.withStore(ctx, token, func(context.Context, *Store) error {
		return nil
	})
}

func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	snap := NewSnapshot(product)
	return s.withStore(ctx, token, func(ctx context.Context, store *Store) error {
		store.AddItem(ctx, snap)
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*CartDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.withStore(ctx, token, func(ctx context.Context, store *Store) error {
		store.UpdateQuantity(ctx, productID, qty)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.withStore(ctx, token, func(ctx context.Context, store *Store) error {
		store.RemoveItem(ctx, productID)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, token string) (*CartDTO, error) {
	return s.withStore(ctx, token, func(ctx context.Context, store *Store) error {
		store.Clear(ctx)
		return nil
	})
}

// withStore serializes operations per token, rehydrates the store from
// storage and hands it to fn. The store persists its own mutations; only the
// initial load can fail here.
func (s *service) withStore(ctx context.Context, token string, fn func(context.Context, *Store) error) (*CartDTO, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	lock := s.lockFor(token)
	lock.Lock()
	defer lock.Unlock()

	ctx = s.logg.WithCartToken(ctx, token)

	storage := s.storage.ForToken(token)
	lines, err := storage.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	store := NewStore(storage, s.logg, lines)
	if err := fn(ctx, store); err != nil {
		return nil, err
	}
	return buildCartDTO(store), nil
}

func (s *service) lockFor(token string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lock, ok := s.locks[token]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.locks[token] = lock
	return lock
}
