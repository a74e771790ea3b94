package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"ecofood/internal/models"
)

// Store is the remote document collection holding products. Every method
// is a single remote call; Update and Delete match on both id and owner and
// report ErrNotFound when nothing matched.
type Store interface {
	Find(ctx context.Context, c Criteria) ([]models.Product, error)
	Count(ctx context.Context, c Criteria) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
}

// Page is one page of a listing. NextCursor is empty when the page is
// empty. HasMore is false once a page comes back shorter than its size; a
// full last page still reports HasMore and the following page is empty.
type Page struct {
	Products   []models.Product
	NextCursor string
	HasMore    bool
	PageSize   int
}

// Listing is a page plus the total number of matching records.
type Listing struct {
	Page
	Total int64
}

type Service struct {
	store           Store
	publisher       Publisher
	writes          *prometheus.CounterVec
	now             func() time.Time
	defaultPageSize int
	maxPageSize     int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPageSizes(defaultSize, maxSize int) Option {
	return func(s *Service) {
		s.defaultPageSize = defaultSize
		s.maxPageSize = maxSize
	}
}

func WithWriteCounter(c *prometheus.CounterVec) Option {
	return func(s *Service) { s.writes = c }
}

// NewWriteCounter counts product writes by operation.
func NewWriteCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecofood_product_writes_total",
		Help: "Product writes accepted by the store, by operation.",
	}, []string{"operation"})
}

func NewService(store Store, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		store:           store,
		publisher:       publisher,
		now:             time.Now,
		defaultPageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPageSize is the page size used when a query leaves it unset.
func (s *Service) DefaultPageSize() int {
	if s.defaultPageSize <= 0 {
		return DefaultPageSize
	}
	return s.defaultPageSize
}

// ListPage fetches one page. A degraded query returns an empty page with
// no cursor and no error.
func (s *Service) ListPage(ctx context.Context, q ListQuery) (Page, error) {
	q = q.WithDefaults(s.defaultPageSize)
	if err := q.Validate(s.maxPageSize); err != nil {
		return Page{}, err
	}
	if q.Degraded() {
		return Page{Products: []models.Product{}, PageSize: q.PageSize}, nil
	}

	criteria, err := q.Criteria()
	if err != nil {
		return Page{}, err
	}

	products, err := s.store.Find(ctx, criteria)
	if err != nil {
		return Page{}, fmt.Errorf("find products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	decorate(products)

	page := Page{
		Products: products,
		HasMore:  len(products) >= q.PageSize,
		PageSize: q.PageSize,
	}
	if len(products) > 0 {
		last := products[len(products)-1]
		page.NextCursor, err = EncodeCursor(PositionOf(last, q.Sort))
		if err != nil {
			return Page{}, err
		}
	}
	return page, nil
}

// Count reports how many records match owner, search and status. It does
// not look at sort or paging.
func (s *Service) Count(ctx context.Context, q CountQuery) (int64, error) {
	q = q.normalize()
	if err := q.validate(); err != nil {
		return 0, err
	}
	total, err := s.store.Count(ctx, q.criteria())
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// Browse runs ListPage and Count concurrently. Both are read-only, so the
// total may momentarily disagree with the page contents.
func (s *Service) Browse(ctx context.Context, q ListQuery) (Listing, error) {
	var listing Listing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.ListPage(gctx, q)
		listing.Page = page
		return err
	})
	g.Go(func() error {
		total, err := s.Count(gctx, q.CountQuery())
		listing.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return Listing{}, err
	}
	return listing, nil
}

// ListAll returns every product of one owner in name order, unpaged.
func (s *Service) ListAll(ctx context.Context, ownerID primitive.ObjectID) ([]models.Product, error) {
	if ownerID.IsZero() {
		verr := &ValidationError{}
		verr.add("ownerId", "ownerId is required")
		return nil, verr
	}
	products, err := s.store.Find(ctx, Criteria{OwnerID: ownerID, Sort: SortByName, Ascending: true})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	decorate(products)
	return products, nil
}

// Get returns a product owned by ownerID. Products of other owners are
// reported as not found.
func (s *Service) Get(ctx context.Context, ownerID, id primitive.ObjectID) (models.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if p.OwnerID != ownerID {
		return models.Product{}, ErrNotFound
	}
	p.IsFree = IsFree(p.Price)
	return p, nil
}

func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, in ProductInput) (models.Product, error) {
	if err := s.prepare(ownerID, &in); err != nil {
		return models.Product{}, err
	}

	now := s.now()
	p := models.Product{
		OwnerID:        ownerID,
		Name:           in.Name,
		Description:    in.Description,
		Quantity:       in.Quantity,
		Price:          in.Price,
		ProductionDate: in.ProductionDate,
		ExpirationDate: in.ExpirationDate,
		Status:         DeriveStatus(in.ExpirationDate, now),
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
	if err := s.store.Insert(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	p.IsFree = IsFree(p.Price)

	s.recordWrite(ctx, EventCreated, p)
	return p, nil
}

// Update replaces the editable fields of a product and re-derives its
// status. Only the owner's products match.
func (s *Service) Update(ctx context.Context, ownerID, id primitive.ObjectID, in ProductInput) (models.Product, error) {
	if err := s.prepare(ownerID, &in); err != nil {
		return models.Product{}, err
	}

	now := s.now()
	updated, err := s.store.Update(ctx, models.Product{
		ID:             id,
		OwnerID:        ownerID,
		Name:           in.Name,
		Description:    in.Description,
		Quantity:       in.Quantity,
		Price:          in.Price,
		ProductionDate: in.ProductionDate,
		ExpirationDate: in.ExpirationDate,
		Status:         DeriveStatus(in.ExpirationDate, now),
		UpdatedAt:      now.UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Product{}, err
		}
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	updated.IsFree = IsFree(updated.Price)

	s.recordWrite(ctx, EventUpdated, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.recordWrite(ctx, EventDeleted, models.Product{ID: id, OwnerID: ownerID})
	return nil
}

func (s *Service) prepare(ownerID primitive.ObjectID, in *ProductInput) error {
	in.Normalize()
	err := in.Validate()
	if ownerID.IsZero() {
		verr := &ValidationError{}
		errors.As(err, &verr)
		verr.add("ownerId", "ownerId is required")
		return verr
	}
	return err
}

func (s *Service) recordWrite(ctx context.Context, eventType string, p models.Product) {
	if s.writes != nil {
		s.writes.WithLabelValues(eventType).Inc()
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, newEvent(eventType, p, s.now())); err != nil {
		log.Warn().
			Err(err).
			Str("event", eventType).
			Str("product_id", p.ID.Hex()).
			Msg("publish product event failed")
	}
}
