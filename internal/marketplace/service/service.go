package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skillshare-dao/skillshare-dao/internal/events"
	"github.com/skillshare-dao/skillshare-dao/internal/marketplace"
	"github.com/skillshare-dao/skillshare-dao/internal/store"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
	"github.com/skillshare-dao/skillshare-dao/pkg/metrics"
)

type Service interface {
	CreateProduct(ctx context.Context, in marketplace.ProductInput, seller string) (*marketplace.Product, error)
	GetProduct(ctx context.Context, id string) (*marketplace.Product, error)
	ListProducts(ctx context.Context) ([]*marketplace.Product, error)
	CreateOrder(ctx context.Context, productID, buyer string) (*marketplace.Order, error)
	GetOrder(ctx context.Context, id string) (*marketplace.Order, error)
}

type marketService struct {
	products store.Map[marketplace.Product]
	orders   store.Map[marketplace.Order]
	events   events.Publisher
	newID    func() string
	now      func() time.Time
}

// New wires the marketplace over two independent maps. pub may be nil.
func New(products store.Map[marketplace.Product], orders store.Map[marketplace.Order], pub events.Publisher) Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &marketService{
		products: products,
		orders:   orders,
		events:   pub,
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *marketService) CreateProduct(ctx context.Context, in marketplace.ProductInput, seller string) (*marketplace.Product, error) {
	p := marketplace.Product{
		ID:            s.newID(),
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		AttachmentURL: in.AttachmentURL,
		Seller:        seller,
		Price:         in.Price,
	}
	if err := s.products.Insert(ctx, p.ID, p); err != nil {
		return nil, apperror.Internal("failed to store product", err)
	}
	return &p, nil
}

func (s *marketService) GetProduct(ctx context.Context, id string) (*marketplace.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("Product with ID %s not found.", id))
		}
		return nil, apperror.Internal("failed to load product", err)
	}
	return &p, nil
}

func (s *marketService) ListProducts(ctx context.Context) ([]*marketplace.Product, error) {
	all, err := s.products.Values(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list products", err)
	}
	out := make([]*marketplace.Product, 0, len(all))
	for i := range all {
		out = append(out, &all[i])
	}
	return out, nil
}

// CreateOrder records a pending order at the product's current price. Payment
// is approved by the buyer on the ledger beforehand; the two steps are not atomic.
func (s *marketService) CreateOrder(ctx context.Context, productID, buyer string) (*marketplace.Order, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	o := marketplace.Order{
		ID:        s.newID(),
		ProductID: p.ID,
		Price:     p.Price,
		Seller:    p.Seller,
		Buyer:     buyer,
		Status:    marketplace.OrderPending,
		CreatedAt: s.now(),
	}
	if err := s.orders.Insert(ctx, o.ID, o); err != nil {
		return nil, apperror.Internal("failed to store order", err)
	}
	metrics.OrdersCreated.Inc()
	if err := s.events.Publish(ctx, events.Event{Type: events.TypeOrderCreated, Subject: o.ID, Actor: buyer, Status: string(o.Status)}); err != nil {
		logger.Warnf("publish %s for %s: %v", events.TypeOrderCreated, o.ID, err)
	}
	return &o, nil
}

func (s *marketService) GetOrder(ctx context.Context, id string) (*marketplace.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("Order with ID %s not found.", id))
		}
		return nil, apperror.Internal("failed to load order", err)
	}
	return &o, nil
}
