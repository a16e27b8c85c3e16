package register

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-register/internal/catalog"
	"github.com/noah-isme/toko-register/internal/obs"
	"github.com/noah-isme/toko-register/internal/pricing"
	"github.com/noah-isme/toko-register/internal/receipt"
)

var (
	// ErrCheckoutNotFound is returned when a finalized checkout is not in the lane history.
	ErrCheckoutNotFound = errors.New("checkout not found")
	// ErrInvalidLane is returned for empty lane identifiers.
	ErrInvalidLane = errors.New("invalid lane")
	// ErrNoCatalog is returned when scanning by code without a catalog.
	ErrNoCatalog = errors.New("catalog not configured")
)

const defaultHistoryLimit = 50

// Checkout is a finalized receipt together with its identity.
type Checkout struct {
	ID       uuid.UUID
	Lane     string
	ClosedAt time.Time
	Receipt  *receipt.Receipt
}

// LaneStatus summarises an open lane.
type LaneStatus struct {
	Lane      string        `json:"lane"`
	Pending   int           `json:"pending"`
	Subtotal  pricing.Money `json:"subtotal"`
	Checkouts int           `json:"checkouts"`
}

type lane struct {
	mu      sync.Mutex
	reg     *Register
	history []Checkout
}

// Service runs any number of registers keyed by lane. Operations on one lane are serialised.
type Service struct {
	catalog      *catalog.Catalog
	logger       zerolog.Logger
	historyLimit int
	strict       bool
	now          func() time.Time

	mu    sync.Mutex
	lanes map[string]*lane
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Catalog      *catalog.Catalog
	Logger       zerolog.Logger
	HistoryLimit int
	StrictItems  bool
	Now          func() time.Time
}

// NewService constructs a lane service.
func NewService(cfg ServiceConfig) *Service {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		catalog:      cfg.Catalog,
		logger:       cfg.Logger,
		historyLimit: limit,
		strict:       cfg.StrictItems,
		now:          now,
		lanes:        make(map[string]*lane),
	}
}

// Catalog returns the configured item catalog, which may be nil.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// openLane returns the lane, creating it on first use.
func (s *Service) openLane(id string) (*lane, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidLane
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lanes[id]
	if !ok {
		var opts []Option
		if s.strict {
			opts = append(opts, WithStrictItems())
		}
		l = &lane{reg: New(opts...)}
		s.lanes[id] = l
		if obs.RegisterOpenLanes != nil {
			obs.RegisterOpenLanes.Set(float64(len(s.lanes)))
		}
	}
	return l, nil
}

// findLane returns the lane if it has been opened. It never creates one.
func (s *Service) findLane(id string) (*lane, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, ErrInvalidLane
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lanes[id]
	return l, ok, nil
}

// Scan adds an item to the lane's pending receipt and returns the new subtotal.
func (s *Service) Scan(ctx context.Context, laneID string, item pricing.Priceable) (pricing.Money, error) {
	_, span := otel.Tracer("register.Service").Start(ctx, "RegisterService.Scan")
	defer span.End()
	laneID = strings.TrimSpace(laneID)
	span.SetAttributes(attribute.String("register.lane", laneID))

	kind := itemKind(item)
	if item == nil {
		recordScan(kind, "invalid")
		return 0, fmt.Errorf("%w: nil item", pricing.ErrInvalidItem)
	}
	l, err := s.openLane(laneID)
	if err != nil {
		recordScan(kind, "invalid")
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.reg.Scan(item); err != nil {
		recordScan(kind, "rejected")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	recordScan(kind, "ok")
	subtotal := l.reg.Subtotal()
	s.logger.Debug().
		Str("lane", laneID).
		Str("item", item.Name()).
		Int64("price", item.Price()).
		Int64("subtotal", subtotal).
		Msg("item scanned")
	return subtotal, nil
}

// ScanCode looks up code in the catalog and scans the resulting item.
func (s *Service) ScanCode(ctx context.Context, laneID, code string, weight float64) (pricing.Priceable, pricing.Money, error) {
	if s.catalog == nil {
		return nil, 0, ErrNoCatalog
	}
	item, err := s.catalog.Lookup(code, weight)
	if err != nil {
		recordScan("code", "unknown")
		return nil, 0, err
	}
	subtotal, err := s.Scan(ctx, laneID, item)
	if err != nil {
		return nil, 0, err
	}
	return item, subtotal, nil
}

// Subtotal returns the pending total for a lane. Unknown lanes report zero.
func (s *Service) Subtotal(_ context.Context, laneID string) (pricing.Money, error) {
	l, ok, err := s.findLane(laneID)
	if err != nil || !ok {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.Subtotal(), nil
}

// Finalize closes the lane's pending receipt and records it in the lane history.
func (s *Service) Finalize(ctx context.Context, laneID string) (Checkout, error) {
	_, span := otel.Tracer("register.Service").Start(ctx, "RegisterService.Finalize")
	defer span.End()

	l, err := s.openLane(laneID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Checkout{}, err
	}
	l.mu.Lock()
	rcpt := l.reg.Finalize()
	checkout := Checkout{
		ID:       uuid.New(),
		Lane:     strings.TrimSpace(laneID),
		ClosedAt: s.now().UTC(),
		Receipt:  rcpt,
	}
	l.history = append(l.history, checkout)
	if over := len(l.history) - s.historyLimit; over > 0 {
		l.history = append([]Checkout(nil), l.history[over:]...)
	}
	l.mu.Unlock()

	total := rcpt.Total()
	span.SetAttributes(
		attribute.String("register.lane", checkout.Lane),
		attribute.String("register.checkout_id", checkout.ID.String()),
		attribute.Int64("register.total", total),
	)
	if obs.RegisterCheckoutsTotal != nil {
		obs.RegisterCheckoutsTotal.Inc()
	}
	if obs.RegisterCheckoutAmount != nil {
		obs.RegisterCheckoutAmount.Observe(float64(total))
	}
	s.logger.Info().
		Str("lane", checkout.Lane).
		Str("checkout_id", checkout.ID.String()).
		Int("items", rcpt.Len()).
		Int64("total", total).
		Msg("checkout finalized")
	return checkout, nil
}

// Checkout returns a previously finalized checkout from the lane history.
func (s *Service) Checkout(_ context.Context, laneID string, id uuid.UUID) (Checkout, error) {
	l, ok, err := s.findLane(laneID)
	if err != nil {
		return Checkout{}, err
	}
	if !ok {
		return Checkout{}, fmt.Errorf("%w: %s", ErrCheckoutNotFound, id)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.history) - 1; i >= 0; i-- {
		if l.history[i].ID == id {
			return l.history[i], nil
		}
	}
	return Checkout{}, fmt.Errorf("%w: %s", ErrCheckoutNotFound, id)
}

// Lanes lists the lanes known to the service, sorted by name.
func (s *Service) Lanes() []LaneStatus {
	s.mu.Lock()
	ids := make([]string, 0, len(s.lanes))
	for id := range s.lanes {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)

	out := make([]LaneStatus, 0, len(ids))
	for _, id := range ids {
		s.mu.Lock()
		l := s.lanes[id]
		s.mu.Unlock()
		l.mu.Lock()
		out = append(out, LaneStatus{
			Lane:      id,
			Pending:   l.reg.Pending(),
			Subtotal:  l.reg.Subtotal(),
			Checkouts: len(l.history),
		})
		l.mu.Unlock()
	}
	return out
}

func itemKind(item pricing.Priceable) string {
	switch item.(type) {
	case pricing.FixedPriceItem, *pricing.FixedPriceItem:
		return "fixed"
	case pricing.WeighedItem, *pricing.WeighedItem:
		return "weighed"
	default:
		return "other"
	}
}

func recordScan(kind, result string) {
	if obs.RegisterScansTotal != nil {
		obs.RegisterScansTotal.WithLabelValues(kind, result).Inc()
	}
}
