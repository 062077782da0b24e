// Package demo is a small bookshop wired by the container. The bobbin
// command inspects and starts it.
package demo

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/danpasecinic/bobbin"
)

type Settings struct {
	ShopName string
	Currency string
}

type Catalog struct {
	settings *Settings
	books    map[string]int
}

func NewCatalog(s *Settings) *Catalog {
	return &Catalog{
		settings: s,
		books: map[string]int{
			"The Go Programming Language": 3999,
			"Concurrency in Go":           3499,
		},
	}
}

func (c *Catalog) Price(title string) (int, bool) {
	price, ok := c.books[title]
	return price, ok
}

func (c *Catalog) Titles() []string {
	titles := make([]string, 0, len(c.books))
	for t := range c.books {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// NewPricing is the factory method producing the shop's Pricing.
func (c *Catalog) NewPricing() Pricing {
	return &catalogPricing{catalog: c, currency: c.settings.Currency}
}

type Pricing interface {
	Quote(title string, qty int) (string, error)
}

type catalogPricing struct {
	catalog  *Catalog
	currency string
}

func (p *catalogPricing) Quote(title string, qty int) (string, error) {
	price, ok := p.catalog.Price(title)
	if !ok {
		return "", fmt.Errorf("unknown title %q", title)
	}
	total := price * qty
	return fmt.Sprintf("%d.%02d %s", total/100, total%100, p.currency), nil
}

type Inventory struct {
	mu     sync.Mutex
	stock  map[string]int
	events *Journal `inject:""`
}

func (i *Inventory) Init(context.Context) error {
	i.stock = map[string]int{
		"The Go Programming Language": 5,
		"Concurrency in Go":           2,
	}
	i.events.Record("inventory loaded")
	return nil
}

func (i *Inventory) Take(title string, qty int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.stock[title] < qty {
		return fmt.Errorf("only %d copies of %q left", i.stock[title], title)
	}
	i.stock[title] -= qty
	return nil
}

// Journal collects shop events.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) Record(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

type Mailer struct {
	From string
}

type Orders struct {
	pricing   Pricing
	inventory *Inventory `inject:""`
	mailer    *Mailer
	journal   *Journal `inject:"Journal"`
}

func NewOrders(p Pricing) *Orders {
	return &Orders{pricing: p}
}

func (o *Orders) InjectMethods() []string {
	return []string{"SetMailer"}
}

func (o *Orders) SetMailer(m *Mailer) {
	o.mailer = m
}

func (o *Orders) Place(title string, qty int) (string, error) {
	quote, err := o.pricing.Quote(title, qty)
	if err != nil {
		return "", err
	}
	if err := o.inventory.Take(title, qty); err != nil {
		return "", err
	}
	o.journal.Record(fmt.Sprintf("order %s x%d, confirmation from %s", title, qty, o.mailer.From))
	return quote, nil
}

func (o *Orders) Dispose(context.Context) error {
	o.journal.Record("orders closed")
	return nil
}

// AuditProcessor logs every bean once it is fully wired.
type AuditProcessor struct {
	Logger *zap.Logger
}

func (AuditProcessor) Order() int {
	return 100
}

func (AuditProcessor) BeforeInit(_ context.Context, _ *bobbin.Container, bean any, _ string) (any, error) {
	return bean, nil
}

func (a AuditProcessor) AfterInit(_ context.Context, _ *bobbin.Container, bean any, name string) (any, error) {
	a.Logger.Info("bean ready", zap.String("bean", name), zap.String("type", fmt.Sprintf("%T", bean)))
	return bean, nil
}

// Module is the shop's manifest.
func Module(logger *zap.Logger) *bobbin.Module {
	infra := bobbin.NewModule("infra").
		Instance("", &Settings{ShopName: "Gopher Books", Currency: "EUR"}).
		Instance("", &Mailer{From: "orders@gopher.books"}).
		Add(bobbin.MustDefine[*Journal]())

	shop := bobbin.NewModule("shop").
		Include(infra).
		PostProcessor(AuditProcessor{Logger: logger}).
		Add(
			bobbin.MustDefine[*Orders](bobbin.WithConstructor(NewOrders)),
			bobbin.MustDefine[*Catalog](bobbin.WithConstructor(NewCatalog)),
			bobbin.MustDefine[Pricing](bobbin.WithFactoryMethod(reflect.TypeFor[*Catalog](), "NewPricing")),
			bobbin.MustDefine[*Inventory](),
		)
	return shop
}

// BrokenModule declares two services that need each other.
func BrokenModule() *bobbin.Module {
	return bobbin.NewModule("broken").
		Add(
			bobbin.MustDefine[*Left](bobbin.WithConstructor(NewLeft)),
			bobbin.MustDefine[*Right](bobbin.WithConstructor(NewRight)),
		)
}

type Left struct{ right *Right }

type Right struct{ left *Left }

func NewLeft(r *Right) *Left { return &Left{right: r} }

func NewRight(l *Left) *Right { return &Right{left: l} }
