package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/enum"
	"github.com/sangkips/billing-counter/internal/domain/pricing"
	"github.com/sangkips/billing-counter/internal/infrastructure/events"
	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	staterepo "github.com/sangkips/billing-counter/internal/infrastructure/repository"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/sangkips/billing-counter/pkg/printer"
	"github.com/sangkips/billing-counter/pkg/utils"
	"github.com/shopspring/decimal"
)

var errBackendDown = errors.New("backend down")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- backend fakes ---

type fakeCatalogRepo struct {
	items      []entity.MenuItem
	categories []string
	err        error
}

func (f *fakeCatalogRepo) ListMenu(context.Context) ([]entity.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeCatalogRepo) ListCategories(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      []entity.FinalizedOrder
	submissions []*entity.OrderSubmission
	createErr   error
	listErr     error
	createCalls int
	listCalls   int
	// onCreate runs after an order is stored, e.g. to add orders placed
	// by other tills.
	onCreate func(f *fakeOrderRepo)
}

func (f *fakeOrderRepo) Create(_ context.Context, o *entity.OrderSubmission) (*entity.OrderConfirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.submissions = append(f.submissions, o)

	number := NextOrderNumber(f.orders)
	f.orders = append(f.orders, entity.FinalizedOrder{
		OrderNumber:   number,
		CustomerName:  o.CustomerName,
		Items:         o.Items,
		Subtotal:      o.Subtotal,
		FinalAmount:   o.FinalAmount,
		PaymentMethod: o.PaymentMethod,
		DisplayDate:   o.DisplayDate,
	})
	if f.onCreate != nil {
		f.onCreate(f)
	}
	return &entity.OrderConfirmation{OrderNumber: number, DisplayDate: o.DisplayDate}, nil
}

func (f *fakeOrderRepo) ListAll(context.Context) ([]entity.FinalizedOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.FinalizedOrder, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeOrderRepo) calls() (create, list int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.listCalls
}

// gatedOrderRepo holds Create until release is closed.
type gatedOrderRepo struct {
	*fakeOrderRepo
	entered chan struct{}
	release chan struct{}
}

func newGatedOrderRepo(inner *fakeOrderRepo) *gatedOrderRepo {
	return &gatedOrderRepo{fakeOrderRepo: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedOrderRepo) Create(ctx context.Context, o *entity.OrderSubmission) (*entity.OrderConfirmation, error) {
	close(g.entered)
	<-g.release
	return g.fakeOrderRepo.Create(ctx, o)
}

type fakeAuthenticator struct {
	passwords map[string]string
	role      string
	calls     int
}

func (f *fakeAuthenticator) Login(_ context.Context, username, password string) (*entity.AuthResult, error) {
	f.calls++
	if pw, ok := f.passwords[username]; !ok || pw != password {
		return nil, errors.New("invalid credentials")
	}
	return &entity.AuthResult{Token: "backend-" + username, Role: f.role, FirstName: "First " + username}, nil
}

// --- printer fakes ---

type fakePrinter struct {
	mu      sync.Mutex
	typ     string
	openErr error
	jobs    [][]byte
	closed  int
}

func (p *fakePrinter) Open(context.Context) (printer.Surface, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	return &fakeSurface{p: p}, nil
}

func (p *fakePrinter) IsConnected() bool { return p.openErr == nil }
func (p *fakePrinter) Type() string      { return p.typ }

func (p *fakePrinter) jobCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

type fakeSurface struct {
	p *fakePrinter
}

func (s *fakeSurface) Write(data []byte) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.jobs = append(s.p.jobs, append([]byte(nil), data...))
	return nil
}

func (s *fakeSurface) Close() error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.closed++
	return nil
}

// --- events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

// --- harness ---

var testMenu = []entity.MenuItem{
	{ID: "1", Name: "Samosa", UnitPrice: dec("3.00"), IsVeg: true, Category: "Starters"},
	{ID: "2", Name: "Chicken Tikka", UnitPrice: dec("8.50"), IsVeg: false, Category: "Mains"},
	{ID: "3", Name: "Paneer Tikka", UnitPrice: dec("7.25"), IsVeg: true, Category: "Mains"},
	{ID: "4", Name: "Mango Lassi", UnitPrice: dec("3.50"), IsVeg: true, Category: "Drinks"},
}

type counter struct {
	store     kvstore.Store
	catalog   *CatalogService
	till      *TillService
	billing   *BillingService
	held      *HeldOrderService
	history   *OrderHistoryService
	auth      *AuthService
	printing  *PrinterService
	orders    *fakeOrderRepo
	authn     *fakeAuthenticator
	printer   *fakePrinter
	fallback  *fakePrinter
	publisher *recordingPublisher
}

func newCounter(t *testing.T) *counter {
	t.Helper()

	log := logger.Discard()
	store := kvstore.NewMemoryStore()
	tillRepo := staterepo.NewTillRepository(store, log)
	sessionRepo := staterepo.NewSessionRepository(store, log)

	c := &counter{
		store:     store,
		orders:    &fakeOrderRepo{},
		authn:     &fakeAuthenticator{passwords: map[string]string{"alice": "pw", "bob": "pw2"}, role: "employee"},
		printer:   &fakePrinter{typ: "network"},
		fallback:  &fakePrinter{typ: "spool"},
		publisher: &recordingPublisher{},
	}

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	c.catalog = NewCatalogService(&fakeCatalogRepo{items: testMenu, categories: []string{"Starters", "Mains", "Drinks"}},
		staterepo.NewFavouriteRepository(store, log), log)
	if _, err := c.catalog.Load(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	c.printing = NewPrinterService(c.printer, c.fallback, ReceiptIdentity{
		BusinessName:   "Mirchi Mafiya",
		Address:        "Cumberland Street, LU1 3BW, Luton",
		Phone:          "+447440086046",
		Email:          "dtsretaillimited@gmail.com",
		CurrencySymbol: "£",
	}, pricing.DefaultRates(), 48, log)

	c.till = NewTillService(c.authn, tillRepo, c.publisher, log)
	c.billing = NewBillingService(c.catalog, c.till, c.orders, sessionRepo, c.printing, c.publisher, BillingOptions{
		Rates:                pricing.DefaultRates(),
		Location:             london,
		DefaultOrderType:     enum.OrderTypeEatIn,
		DefaultPaymentMethod: enum.PaymentMethodCash,
	}, log)
	c.billing.now = func() time.Time { return time.Date(2024, 7, 1, 12, 30, 15, 0, time.UTC) }
	c.held = NewHeldOrderService(c.billing, c.till, staterepo.NewHeldOrderRepository(store, log), c.printing, c.publisher, log)
	c.history = NewOrderHistoryService(c.orders, c.printing, london, log)
	c.auth = NewAuthService(c.authn, sessionRepo, utils.NewJWTManager("test-secret", time.Hour), log)
	return c
}

func (c *counter) openTill(t *testing.T) {
	t.Helper()
	if _, err := c.till.Open(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("open till: %v", err)
	}
}

func (c *counter) add(t *testing.T, ids ...string) CartState {
	t.Helper()
	var state CartState
	for _, id := range ids {
		var err error
		state, err = c.billing.AddItem(id)
		if err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	return state
}
