package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

// MemoryStore is an in-memory implementation of the order and product
// repositories with the same atomicity guarantees as the Postgres one: a
// single mutex makes checkout and cancellation all-or-nothing. It backs
// tests and local development without a database.
type MemoryStore struct {
	mu         sync.Mutex
	products   map[int64]*domain.Product
	orders     map[int64]*domain.Order
	nextProdID int64
	nextOrdID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   make(map[int64]*domain.Product),
		orders:     make(map[int64]*domain.Order),
		nextProdID: 1,
		nextOrdID:  1,
	}
}

var (
	_ domain.OrderRepository   = (*MemoryStore)(nil)
	_ domain.ProductRepository = (*MemoryStore)(nil)
)

func (s *MemoryStore) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *product
	p.ID = s.nextProdID
	s.nextProdID++
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Images == nil {
		p.Images = []string{}
	}
	s.products[p.ID] = &p
	out := p
	return &out, nil
}

func (s *MemoryStore) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	out := *p
	return &out, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, id int64, updates map[string]interface{}) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	for col, val := range updates {
		switch col {
		case "name":
			p.Name, _ = val.(string)
		case "slug":
			p.Slug, _ = val.(string)
		case "description":
			p.Description, _ = val.(string)
		case "price":
			p.Price, _ = val.(float64)
		case "category":
			p.Category, _ = val.(string)
		case "images":
			p.Images, _ = val.([]string)
		case "stock":
			switch v := val.(type) {
			case int:
				p.Stock = v
			case float64:
				p.Stock = int(v)
			}
		case "featured":
			p.Featured, _ = val.(bool)
		default:
			return nil, fmt.Errorf("%w: unknown product field '%s'", domain.ErrInvalidRequest, col)
		}
	}
	p.UpdatedAt = time.Now()
	out := *p
	return &out, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ListProducts(_ context.Context, filter domain.ProductFilter) (*domain.ProductList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []domain.Product{}
	for _, p := range s.products {
		if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, *p)
	}

	switch filter.Sort {
	case "price-asc":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case "price-desc":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case "rating":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	total := int64(len(matched))
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 12
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return &domain.ProductList{Products: matched[start:end], Total: total, Pages: pages}, nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	categories := []string{}
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *MemoryStore) CountProducts(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.products)), nil
}

// CreateOrder mirrors the Postgres transaction: every decrement is checked
// under the lock and nothing is written unless all items succeed.
func (s *MemoryStore) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate availability first so a late failure never leaves a
	// partially decremented state.
	for _, item := range order.Items {
		p, ok := s.products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, item.ProductID)
		}
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: product %d (requested: %d, available: %d)",
				domain.ErrInsufficientStock, item.ProductID, item.Quantity, p.Stock)
		}
	}

	o := *order
	o.Items = make([]domain.OrderItem, len(order.Items))
	copy(o.Items, order.Items)

	total := 0.0
	for i := range o.Items {
		p := s.products[o.Items[i].ProductID]
		p.Stock -= o.Items[i].Quantity
		p.UpdatedAt = time.Now()
		o.Items[i].Price = p.Price
		total += p.Price * float64(o.Items[i].Quantity)
	}

	o.ID = s.nextOrdID
	s.nextOrdID++
	o.TotalPrice = total
	o.Status = domain.StatusPending
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	s.orders[o.ID] = &o

	out := o
	out.Items = make([]domain.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out, nil
}

func (s *MemoryStore) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	out := *o
	out.Items = make([]domain.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out, nil
}

func (s *MemoryStore) ListOrdersByUserID(_ context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []domain.Order{}
	for _, o := range s.orders {
		if o.UserID != nil && *o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return paginateOrders(orders, limit, offset), nil
}

func (s *MemoryStore) ListOrders(_ context.Context, limit, offset int) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []domain.Order{}
	for _, o := range s.orders {
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return paginateOrders(orders, limit, offset), nil
}

func paginateOrders(orders []domain.Order, limit, offset int) []domain.Order {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(orders) {
		offset = len(orders)
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end]
}

// CancelOrder performs the status flip and the stock restore under one
// lock acquisition, matching the single-transaction Postgres behavior.
func (s *MemoryStore) CancelOrder(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	if o.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", domain.ErrInvalidState)
	}

	o.Status = domain.StatusCancelled
	o.UpdatedAt = time.Now()
	for _, item := range o.Items {
		if p, ok := s.products[item.ProductID]; ok {
			p.Stock += item.Quantity
			p.UpdatedAt = time.Now()
		}
	}

	out := *o
	out.Items = make([]domain.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	out := *o
	out.Items = make([]domain.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out, nil
}

func (s *MemoryStore) CountOrders(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *MemoryStore) TotalRevenue(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revenue := 0.0
	for _, o := range s.orders {
		if o.Status != domain.StatusCancelled {
			revenue += o.TotalPrice
		}
	}
	return revenue, nil
}
