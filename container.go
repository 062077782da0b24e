package bobbin

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danpasecinic/bobbin/internal/graph"
	breflect "github.com/danpasecinic/bobbin/internal/reflect"
	"github.com/danpasecinic/bobbin/internal/registry"
)

type State int

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateClosing
	StateClosed
)

var stateNames = map[State]string{
	StateNew:      "new",
	StateStarting: "starting",
	StateRunning:  "running",
	StateClosing:  "closing",
	StateClosed:   "closed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Container owns the bean registry, the singleton cache and the
// post-processor chain. It is assembled by one goroutine; once started it
// may be read from many.
type Container struct {
	mu       sync.RWMutex
	registry *registry.Registry[*Definition]
	graph    *graph.Graph
	logger   *zap.Logger
	state    State

	processors []orderedProcessor
	chain      []PostProcessor
	frozen     bool

	creating []string

	onCreate   []CreateHook
	onRegister []RegisterHook
}

type containerConfig struct {
	logger     *zap.Logger
	processors []PostProcessor
	onCreate   []CreateHook
	onRegister []RegisterHook
}

func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Container{
		registry:   registry.New[*Definition](),
		graph:      graph.New(),
		logger:     cfg.logger,
		onCreate:   cfg.onCreate,
		onRegister: cfg.onRegister,
	}
	for _, p := range cfg.processors {
		c.processors = append(c.processors, newOrderedProcessor(p))
	}
	return c
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Container) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Register adds a definition under its name. Registering the same
// definition twice is a no-op; a different definition for the same name or
// type fails with a DuplicateRegistration error.
func (c *Container) Register(def *Definition) error {
	if def == nil {
		return errInvalidDefinition(nil, errors.New("definition is nil"))
	}
	return c.register(def.name, def)
}

func (c *Container) register(name string, def *Definition) error {
	if err := c.registry.Register(name, def.typ, def); err != nil {
		return errDuplicateRegistration(name, err).WithTarget(typeName(def.typ))
	}

	c.graph.AddNode(name)
	c.logger.Debug("registered bean", zap.String("bean", name), zap.String("type", typeName(def.typ)))
	for _, hook := range c.onRegister {
		hook(name)
	}
	return nil
}

func (c *Container) RegisterAll(defs ...*Definition) error {
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterInstance adds an already built singleton, such as a database
// handle. It does not go through the post-processor chain. An empty name
// falls back to the simple type name.
func (c *Container) RegisterInstance(name string, instance any) error {
	if breflect.IsNil(instance) {
		return errInvalidDefinition(nil, errors.New("instance is nil"))
	}

	t := reflect.TypeOf(instance)
	if name == "" {
		name = breflect.SimpleName(t)
	}

	def := &Definition{name: name, typ: t, prebuilt: true}
	if err := c.registry.RegisterInstance(name, t, def, instance); err != nil {
		return errDuplicateRegistration(name, err).WithTarget(typeName(t))
	}

	c.graph.AddNode(name)
	c.logger.Debug("registered instance", zap.String("bean", name), zap.String("type", typeName(t)))
	for _, hook := range c.onRegister {
		hook(name)
	}
	return nil
}

// lookup maps a requested type to a bean name: exact type, then interface
// binding, then the single registered implementer of an interface.
func (c *Container) lookup(t reflect.Type) (string, bool, error) {
	if name, ok := c.registry.NameOf(t); ok {
		return name, true, nil
	}
	if !breflect.IsInterface(t) {
		return "", false, nil
	}

	candidates := c.registry.Implementers(t)
	switch len(candidates) {
	case 0:
		return "", false, nil
	case 1:
		return candidates[0], true, nil
	default:
		return "", false, errNoUniqueBean(t, candidates)
	}
}

// ContainsBean reports whether a singleton for t has already been created.
func (c *Container) ContainsBean(t reflect.Type) bool {
	name, ok, err := c.lookup(t)
	if err != nil || !ok {
		return false
	}
	_, ok = c.registry.Instance(name)
	return ok
}

// ContainsDefinition reports whether t resolves to a registered definition.
func (c *Container) ContainsDefinition(t reflect.Type) bool {
	_, ok, err := c.lookup(t)
	return ok && err == nil
}

// GetBeanDefinition returns the definition t resolves to. A concrete struct
// type that was never registered gets a synthesized zero-value definition,
// which is registered only when the bean is created.
func (c *Container) GetBeanDefinition(t reflect.Type) (*Definition, error) {
	name, ok, err := c.lookup(t)
	if err != nil {
		return nil, err
	}
	if ok {
		entry, _ := c.registry.Get(name)
		return entry.Definition, nil
	}

	switch {
	case breflect.IsStructLike(t):
		return NewDefinition(t, WithBeanName(beanNameFor(t, c.typeOfName)))
	case breflect.IsAbstract(t):
		return nil, errNoSuchBean(t, errUnresolvableType(breflect.SimpleName(t), t))
	default:
		return nil, errNoSuchBean(t, nil)
	}
}

func (c *Container) typeOfName(name string) (reflect.Type, bool) {
	entry, ok := c.registry.Get(name)
	return entry.Type, ok
}

// beanNameFor returns the simple name of t unless owner reports another
// type under it. It then falls back to the type key, numbered when even
// that is held by a same-named type from another scope.
func beanNameFor(t reflect.Type, owner func(string) (reflect.Type, bool)) string {
	name := breflect.SimpleName(t)
	for i := 1; ; i++ {
		if other, ok := owner(name); !ok || other == t {
			return name
		}
		name = typeName(t)
		if i > 1 {
			name = fmt.Sprintf("%s#%d", name, i)
		}
	}
}

// GetBean returns the cached singleton for t. It never creates one; use
// CreateBean or Resolve for that.
func (c *Container) GetBean(t reflect.Type) (any, error) {
	name, ok, err := c.lookup(t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoSuchBean(t, nil)
	}

	instance, ok := c.registry.Instance(name)
	if !ok {
		return nil, errNoSuchBean(t, nil).WithBean(name)
	}
	return instance, nil
}

// GetBeanByName returns the cached singleton registered under name.
func (c *Container) GetBeanByName(name string) (any, error) {
	instance, ok := c.registry.Instance(name)
	if !ok {
		return nil, errNoSuchBeanNamed(name)
	}
	return instance, nil
}

// Definition returns the definition registered under name.
func (c *Container) Definition(name string) (*Definition, bool) {
	entry, ok := c.registry.Get(name)
	if !ok {
		return nil, false
	}
	return entry.Definition, true
}

// Names returns registered bean names in registration order.
func (c *Container) Names() []string {
	return c.registry.Names()
}

func (c *Container) Size() int {
	return c.registry.Size()
}

// CreateBean instantiates def, runs the post-processor chain, calls Init
// and caches the result under name. An already cached name is returned as
// is. Requesting a name that is still being built on the current
// resolution path fails with a CircularDependency error.
func (c *Container) CreateBean(ctx context.Context, name string, def *Definition) (any, error) {
	if def == nil {
		return nil, errInvalidDefinition(nil, errors.New("definition is nil"))
	}
	if name == "" {
		name = def.name
	}

	if entry, ok := c.registry.Get(name); ok {
		if entry.Type != def.typ {
			return nil, errDuplicateRegistration(name, registry.ErrDuplicateName).WithTarget(typeName(def.typ))
		}
		if entry.Instantiated {
			return entry.Instance, nil
		}
		if entry.Name != name {
			return c.CreateBean(ctx, entry.Name, entry.Definition)
		}
	}

	// A registered definition requested under another name gets that name
	// as an alias of its entry.
	if registered, ok := c.registry.NameOf(def.typ); ok && registered != name {
		if entry, _ := c.registry.Get(registered); entry.Definition == def {
			if err := c.registry.AliasName(name, registered); err != nil {
				return nil, errDuplicateRegistration(name, err).WithTarget(typeName(def.typ))
			}
			c.logger.Debug("aliased bean", zap.String("bean", registered), zap.String("alias", name))
			return c.CreateBean(ctx, registered, def)
		}
	}

	if idx := slices.Index(c.creating, name); idx >= 0 {
		chain := append(slices.Clone(c.creating[idx:]), name)
		return nil, errCircularDependency(chain)
	}

	if _, ok := c.registry.Get(name); !ok {
		if err := c.register(name, def); err != nil {
			return nil, err
		}
	} else if err := c.registry.Register(name, def.typ, def); err != nil {
		return nil, errDuplicateRegistration(name, err).WithTarget(typeName(def.typ))
	}

	c.freezeChain()

	c.creating = append(c.creating, name)
	defer func() {
		c.creating = c.creating[:len(c.creating)-1]
	}()

	start := time.Now()
	instance, err := c.create(ctx, name, def)
	elapsed := time.Since(start)
	for _, hook := range c.onCreate {
		hook(name, elapsed, err)
	}
	if err != nil {
		c.logger.Debug("bean creation failed", zap.String("bean", name), zap.Error(err))
		return nil, err
	}

	c.registry.SetInstance(name, instance)
	c.logger.Debug("created bean", zap.String("bean", name), zap.Duration("duration", elapsed))
	return instance, nil
}

func (c *Container) create(ctx context.Context, name string, def *Definition) (any, error) {
	raw, err := c.instantiate(ctx, name, def)
	if err != nil {
		return nil, err
	}

	bean, err := c.applyProcessors(ctx, name, def, raw)
	if err != nil {
		return nil, err
	}

	if initializer, ok := bean.(Initializer); ok {
		if err := initializer.Init(ctx); err != nil {
			return nil, errBeanInstantiation(name, "Init", err)
		}
	}
	return bean, nil
}

// resolve returns the bean for t, creating it and its dependencies on
// demand. It also reports the bean name t resolved to.
func (c *Container) resolve(ctx context.Context, t reflect.Type) (string, any, error) {
	if name, ok, err := c.lookup(t); err == nil && ok {
		if instance, ok := c.registry.Instance(name); ok {
			return name, instance, nil
		}
	}

	def, err := c.GetBeanDefinition(t)
	if err != nil {
		return "", nil, err
	}
	instance, err := c.CreateBean(ctx, def.name, def)
	return def.name, instance, err
}

func (c *Container) resolveNamed(ctx context.Context, name string) (any, error) {
	if instance, ok := c.registry.Instance(name); ok {
		return instance, nil
	}
	entry, ok := c.registry.Get(name)
	if !ok {
		return nil, errNoSuchBeanNamed(name)
	}
	return c.CreateBean(ctx, name, entry.Definition)
}

// resolveDependency resolves what dependent needs, by bean name when one is
// given and by type otherwise, and records the edge in the bean graph.
func (c *Container) resolveDependency(
	ctx context.Context,
	dependent string,
	t reflect.Type,
	beanName string,
) (reflect.Value, error) {
	var (
		instance any
		err      error
	)

	resolved := beanName
	if beanName != "" {
		instance, err = c.resolveNamed(ctx, beanName)
	} else {
		resolved, instance, err = c.resolve(ctx, t)
	}
	if err != nil {
		return reflect.Value{}, err
	}

	c.graph.AddEdge(dependent, resolved)

	v := reflect.ValueOf(instance)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("bean %s of type %s is not assignable to %s", resolved, v.Type(), t)
	}
	return v, nil
}
