// Package repotest provides in-memory repositories with the same error
// behaviour as the gorm ones, for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/repositories"
	"github.com/google/uuid"
)

type Store struct {
	mu         sync.Mutex
	clock      time.Time
	categories map[string]models.Category
	products   map[string]models.Product
	users      map[string]models.User
	orders     map[string]models.Order

	// FailCreateOrder, when set, is returned by CreateWithStock before any
	// stock is touched.
	FailCreateOrder error
}

func NewStore() *Store {
	return &Store{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		categories: map[string]models.Category{},
		products:   map[string]models.Product{},
		users:      map[string]models.User{},
		orders:     map[string]models.Order{},
	}
}

// tick returns strictly increasing timestamps so newest-first order is
// insertion order reversed.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) CategoryRepo() repositories.CategoryRepository { return &categoryRepo{s} }
func (s *Store) ProductRepo() repositories.ProductRepository { return &productRepo{s} }
func (s *Store) UserRepo() repositories.UserRepository { return &userRepo{s} }
func (s *Store) OrderRepo() repositories.OrderRepository { return &orderRepo{s} }

func (s *Store) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *Store) CategoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

// Stock returns the stored quantity of a product, or -1 if unknown.
func (s *Store) Stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return -1
	}
	return p.Quantity
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if sameName(c.Name, category.Name) {
			return repositories.ErrDuplicate
		}
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := r.s.tick()
	category.CreatedAt, category.UpdatedAt = now, now
	r.s.categories[category.ID] = *category
	return nil
}

// sameName compares category names the way the default MySQL collation on
// categories.name does.
func sameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

func (r *categoryRepo) find(match func(models.Category) bool) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if match(c) {
			found := c
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	return r.find(func(c models.Category) bool { return c.ID == id })
}

func (r *categoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	return r.find(func(c models.Category) bool { return c.Slug == slug })
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*models.Category, error) {
	return r.find(func(c models.Category) bool { return sameName(c.Name, name) })
}

func (r *categoryRepo) GetAll(context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	categories := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *categoryRepo) Update(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, c := range r.s.categories {
		if c.ID != category.ID && sameName(c.Name, category.Name) {
			return repositories.ErrDuplicate
		}
	}
	category.UpdatedAt = r.s.tick()
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return repositories.ErrReferenced
		}
	}
	delete(r.s.categories, id)
	return nil
}

type productRepo struct{ s *Store }

// view copies p without its photo, with the category populated when asked.
func (r *productRepo) view(p models.Product, withCategory bool) models.Product {
	p.Photo = nil
	p.PhotoContentType = ""
	p.Category = nil
	if withCategory {
		if c, ok := r.s.categories[p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func (r *productRepo) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return repositories.ErrNotFound
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := r.s.tick()
	product.CreatedAt, product.UpdatedAt = now, now

	stored := *product
	stored.Category = nil
	stored.Photo = append([]byte(nil), product.Photo...)
	r.s.products[product.ID] = stored
	return nil
}

func (r *productRepo) Update(_ context.Context, product *models.Product, withPhoto bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[product.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return repositories.ErrNotFound
	}

	stored := *product
	stored.Category = nil
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = r.s.tick()
	if withPhoto {
		stored.Photo = append([]byte(nil), product.Photo...)
	} else {
		stored.Photo = existing.Photo
		stored.PhotoContentType = existing.PhotoContentType
	}
	r.s.products[product.ID] = stored
	return nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v := r.view(p, true)
	return &v, nil
}

func (r *productRepo) GetByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, r.view(p, false))
		}
	}
	return out, nil
}

func (r *productRepo) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	found := r.list(func(p models.Product) bool { return p.Slug == slug }, true)
	if len(found) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &found[0], nil
}

func (r *productRepo) GetPhoto(_ context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.Product{
		ID:               p.ID,
		Photo:            append([]byte(nil), p.Photo...),
		PhotoContentType: p.PhotoContentType,
	}, nil
}

// list returns matching products newest first.
func (r *productRepo) list(match func(models.Product) bool, withCategory bool) []models.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.s.products {
		if match(p) {
			out = append(out, r.view(p, withCategory))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func all(models.Product) bool { return true }

func window(products []models.Product, limit, offset int) []models.Product {
	if offset < 0 || offset >= len(products) {
		return []models.Product{}
	}
	end := offset + limit
	if limit < 0 || end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}

func (r *productRepo) GetLatest(_ context.Context, limit int) ([]models.Product, error) {
	return window(r.list(all, true), limit, 0), nil
}

func (r *productRepo) GetPaginated(_ context.Context, limit, offset int) ([]models.Product, error) {
	return window(r.list(all, false), limit, offset), nil
}

func (r *productRepo) Filter(_ context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return r.list(func(p models.Product) bool {
		if len(filter.CategoryIDs) > 0 {
			in := false
			for _, id := range filter.CategoryIDs {
				if p.CategoryID == id {
					in = true
					break
				}
			}
			if !in {
				return false
			}
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			return false
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			return false
		}
		return true
	}, false), nil
}

func (r *productRepo) Count(context.Context) (int64, error) {
	return int64(len(r.list(all, false))), nil
}

func (r *productRepo) Search(_ context.Context, keyword string) ([]models.Product, error) {
	kw := strings.ToLower(keyword)
	return r.list(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), kw) || strings.Contains(strings.ToLower(p.Description), kw)
	}, false), nil
}

func (r *productRepo) GetRelated(_ context.Context, productID, categoryID string, limit int) ([]models.Product, error) {
	related := r.list(func(p models.Product) bool {
		return p.CategoryID == categoryID && p.ID != productID
	}, true)
	return window(related, limit, 0), nil
}

func (r *productRepo) GetByCategoryID(_ context.Context, categoryID string) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.CategoryID == categoryID }, true), nil
}

func (r *productRepo) CountByCategoryID(ctx context.Context, categoryID string) (int64, error) {
	products, _ := r.GetByCategoryID(ctx, categoryID)
	return int64(len(products)), nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := r.s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepo) UpdateRole(_ context.Context, userID string, role models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Role = role
	r.s.users[userID] = u
	return nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) CreateWithStock(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCreateOrder != nil {
		return r.s.FailCreateOrder
	}

	for _, item := range order.Items {
		p, ok := r.s.products[item.ProductID]
		if !ok || p.Quantity < item.Quantity {
			return repositories.ErrInsufficientStock
		}
	}
	for _, item := range order.Items {
		p := r.s.products[item.ProductID]
		p.Quantity -= item.Quantity
		r.s.products[item.ProductID] = p
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusNotProcess
	}
	now := r.s.tick()
	order.CreatedAt, order.UpdatedAt = now, now
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = now
	}

	stored := *order
	stored.Buyer = nil
	stored.Payment = nil
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.s.orders[order.ID] = stored
	return nil
}

func (r *orderRepo) view(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	if u, ok := r.s.users[o.BuyerID]; ok {
		o.Buyer = &models.User{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	o.FillPaymentView()
	return o
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v := r.view(o)
	return &v, nil
}

func (r *orderRepo) listOrders(match func(models.Order) bool) []models.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Order{}
	for _, o := range r.s.orders {
		if match(o) {
			out = append(out, r.view(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *orderRepo) FindByBuyerID(_ context.Context, buyerID string) ([]models.Order, error) {
	return r.listOrders(func(o models.Order) bool { return o.BuyerID == buyerID }), nil
}

func (r *orderRepo) GetAllOrders(context.Context) ([]models.Order, error) {
	return r.listOrders(func(models.Order) bool { return true }), nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, orderID string, status models.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = r.s.tick()
	r.s.orders[orderID] = o
	return nil
}
