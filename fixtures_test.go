package bobbin_test

import (
	"context"
	"errors"
	"fmt"
)

type Engine struct {
	HP int
}

func NewEngine() *Engine {
	return &Engine{HP: 150}
}

func NewTurboEngine() *Engine {
	return &Engine{HP: 300}
}

type Car struct {
	Engine *Engine
	Brand  string
}

func NewCar(e *Engine) *Car {
	return &Car{Engine: e}
}

type Workshop struct {
	Brand string
}

func (w *Workshop) BuildCar(e *Engine) *Car {
	return &Car{Engine: e, Brand: w.Brand}
}

type Repository interface {
	Find(id int) (string, error)
}

type MemoryRepository struct {
	rows map[int]string
}

func (r *MemoryRepository) Find(id int) (string, error) {
	row, ok := r.rows[id]
	if !ok {
		return "", fmt.Errorf("row %d not found", id)
	}
	return row, nil
}

type SQLRepository struct{}

func (r *SQLRepository) Find(id int) (string, error) {
	return fmt.Sprintf("sql-%d", id), nil
}

// Garage has both an inject tag and a setter for the same field.
type Garage struct {
	engine      *Engine `inject:""`
	setterCalls int
}

func (g *Garage) SetEngine(e *Engine) {
	g.setterCalls++
	g.engine = e
}

func (g *Garage) Engine() *Engine {
	return g.engine
}

func (g *Garage) SetterCalls() int {
	return g.setterCalls
}

type Dashboard struct {
	engine *Engine `inject:""`
	Car    *Car    `inject:""`
	Notes  string
}

func (d *Dashboard) Engine() *Engine {
	return d.engine
}

type Greeter struct {
	name string
}

func (g *Greeter) SetName(name string) {
	g.name = name
}

func (g *Greeter) SetPair(a, b string) {
	g.name = a + b
}

func (g *Greeter) Name() string {
	return g.name
}

type Chicken struct {
	egg *Egg
}

type Egg struct {
	chicken *Chicken
}

func NewChicken(e *Egg) *Chicken {
	return &Chicken{egg: e}
}

func NewEgg(c *Chicken) *Egg {
	return &Egg{chicken: c}
}

type Left struct {
	Right *Right `inject:""`
}

type Right struct {
	Left *Left `inject:""`
}

type Events struct {
	log []string
}

func (e *Events) Add(event string) {
	e.log = append(e.log, event)
}

func (e *Events) Log() []string {
	return e.log
}

type Database struct {
	events *Events
	fail   bool
}

func (d *Database) Init(context.Context) error {
	d.events.Add("init Database")
	return nil
}

func (d *Database) Dispose(context.Context) error {
	d.events.Add("dispose Database")
	if d.fail {
		return errors.New("database close failed")
	}
	return nil
}

type Service struct {
	db     *Database
	events *Events
}

func (s *Service) Init(context.Context) error {
	s.events.Add("init Service")
	return nil
}

func (s *Service) Dispose(context.Context) error {
	s.events.Add("dispose Service")
	return nil
}

type Mailer struct {
	From string
}

// Notifier receives its mailer through an Injectable-declared setter.
type Notifier struct {
	mailer *Mailer
}

func (n *Notifier) InjectMethods() []string {
	return []string{"SetMailer"}
}

func (n *Notifier) SetMailer(m *Mailer) {
	n.mailer = m
}

func (n *Notifier) Mailer() *Mailer {
	return n.mailer
}

// Settings is a value-type bean with an injected field.
type Settings struct {
	Engine *Engine `inject:""`
}

var errBoom = errors.New("boom")
