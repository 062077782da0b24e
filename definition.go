package bobbin

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	breflect "github.com/danpasecinic/bobbin/internal/reflect"
)

// TagKey marks struct fields for injection. An empty value injects by the
// field's type, a non-empty value injects the bean with that name.
const TagKey = "inject"

// Definition describes how one bean type is instantiated: through a
// constructor function, through a factory, or through its zero value.
// A Definition is immutable once built.
type Definition struct {
	name          string
	typ           reflect.Type
	constructors  []breflect.Signature
	declaringType reflect.Type
	factory       *breflect.Signature
	factoryMethod string
	setters       map[string]string
	injectMethods []string
	prebuilt      bool
}

type DefinitionOption func(*definitionConfig)

type definitionConfig struct {
	name          string
	constructors  []any
	factory       any
	declaringType reflect.Type
	factoryMethod string
	setters       map[string]string
	injectMethods []string
}

// WithBeanName overrides the conventional name, the simple type name.
func WithBeanName(name string) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.name = name
	}
}

// WithConstructor declares a constructor function returning the bean type or
// (bean type, error). Declaring more than one makes the definition ambiguous
// unless a factory is also declared.
func WithConstructor(fn any) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.constructors = append(cfg.constructors, fn)
	}
}

// WithFactory declares a free factory function. Its parameters are resolved
// from the container.
func WithFactory(fn any) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.factory = fn
	}
}

// WithFactoryMethod declares a method on declaring as the factory. The
// receiver is itself resolved as a bean of type declaring.
func WithFactoryMethod(declaring reflect.Type, method string) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.declaringType = declaring
		cfg.factoryMethod = method
	}
}

// WithSetter binds an injected field to the setter method that must be used
// to inject it, overriding the SetField naming convention.
func WithSetter(field, method string) DefinitionOption {
	return func(cfg *definitionConfig) {
		if cfg.setters == nil {
			cfg.setters = make(map[string]string)
		}
		cfg.setters[field] = method
	}
}

// WithInjectMethod marks a setter method for injection. The method must take
// exactly one argument and return nothing.
func WithInjectMethod(methods ...string) DefinitionOption {
	return func(cfg *definitionConfig) {
		cfg.injectMethods = append(cfg.injectMethods, methods...)
	}
}

// Define builds the definition for T.
func Define[T any](opts ...DefinitionOption) (*Definition, error) {
	return NewDefinition(breflect.TypeOf[T](), opts...)
}

func MustDefine[T any](opts ...DefinitionOption) *Definition {
	def, err := Define[T](opts...)
	if err != nil {
		panic(err)
	}
	return def
}

func NewDefinition(t reflect.Type, opts ...DefinitionOption) (*Definition, error) {
	if t == nil {
		return nil, errInvalidDefinition(t, errors.New("bean type is nil"))
	}

	cfg := &definitionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	def := &Definition{
		name:          cfg.name,
		typ:           t,
		declaringType: cfg.declaringType,
		factoryMethod: cfg.factoryMethod,
		setters:       cfg.setters,
		injectMethods: cfg.injectMethods,
	}
	if def.name == "" {
		def.name = breflect.SimpleName(t)
	}

	for i, fn := range cfg.constructors {
		sig, err := producerSignature(t, fn)
		if err != nil {
			return nil, errInvalidDefinition(t, fmt.Errorf("constructor %d: %w", i, err))
		}
		def.constructors = append(def.constructors, sig)
	}

	switch {
	case cfg.factory != nil && cfg.factoryMethod != "":
		return nil, errInvalidDefinition(t, errors.New("a factory function and a factory method are mutually exclusive"))
	case cfg.factory != nil:
		sig, err := producerSignature(t, cfg.factory)
		if err != nil {
			return nil, errInvalidDefinition(t, fmt.Errorf("factory: %w", err))
		}
		def.factory = &sig
	case cfg.factoryMethod != "" || cfg.declaringType != nil:
		sig, err := factoryMethodSignature(t, cfg.declaringType, cfg.factoryMethod)
		if err != nil {
			return nil, errInvalidDefinition(t, err)
		}
		def.factory = &sig
	}

	return def, nil
}

func producerSignature(t reflect.Type, fn any) (breflect.Signature, error) {
	sig, err := breflect.FuncSignature(fn)
	if err != nil {
		return sig, err
	}
	if !sig.Out.AssignableTo(t) {
		return sig, fmt.Errorf("returns %s, not assignable to %s", sig.Out, t)
	}
	return sig, nil
}

func factoryMethodSignature(t, declaring reflect.Type, method string) (breflect.Signature, error) {
	if declaring == nil || method == "" {
		return breflect.Signature{}, errors.New("factory method needs both a declaring type and a method name")
	}
	if breflect.IsInterface(declaring) {
		return breflect.Signature{}, fmt.Errorf("declaring type %s is an interface", declaring)
	}

	m, ok := declaring.MethodByName(method)
	if !ok {
		return breflect.Signature{}, fmt.Errorf("%s has no method %s", declaring, method)
	}

	sig, err := breflect.MethodSignature(m)
	if err != nil {
		return sig, fmt.Errorf("factory method %s.%s: %w", declaring, method, err)
	}
	if !sig.Out.AssignableTo(t) {
		return sig, fmt.Errorf("factory method %s.%s returns %s, not assignable to %s", declaring, method, sig.Out, t)
	}
	return sig, nil
}

func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) Type() reflect.Type {
	return d.typ
}

// DeclaringType is the type owning the factory method, or nil.
func (d *Definition) DeclaringType() reflect.Type {
	return d.declaringType
}

// FactoryMethod is the factory method name, empty for free factories.
func (d *Definition) FactoryMethod() string {
	return d.factoryMethod
}

func (d *Definition) Constructors() int {
	return len(d.constructors)
}

func (d *Definition) IsAbstract() bool {
	return breflect.IsAbstract(d.typ)
}

func (d *Definition) IsInterface() bool {
	return breflect.IsInterface(d.typ)
}

func (d *Definition) HasFactoryMethod() bool {
	return d.factory != nil
}

// HasOnlyDefaultConstructor reports whether the definition declares a way
// to build the bean without arguments: no constructor, a no-arg
// constructor, or a no-arg factory (receiver excluded). More than one
// constructor is never default.
func (d *Definition) HasOnlyDefaultConstructor() bool {
	if len(d.constructors) > 1 {
		return false
	}
	return len(d.constructors) == 0 ||
		d.constructors[0].NumParams() == 0 ||
		(d.HasFactoryMethod() && d.factory.NumParams() == 0)
}

// Dependency is one statically declared requirement of a definition.
type Dependency struct {
	Type   reflect.Type
	Name   string
	Target string
}

// Dependencies lists what the definition declares it needs: factory
// receiver and parameters, or the single constructor's parameters, then
// tagged fields and injection methods. Beans implementing Injectable may
// need more at runtime.
func (d *Definition) Dependencies() []Dependency {
	if d.prebuilt {
		return nil
	}

	var deps []Dependency

	switch {
	case d.factory != nil:
		if d.declaringType != nil {
			deps = append(deps, Dependency{Type: d.declaringType, Target: "receiver"})
		}
		for i, p := range d.factory.Params {
			deps = append(deps, Dependency{Type: p, Target: fmt.Sprintf("param %d", i)})
		}
	case len(d.constructors) == 1:
		for i, p := range d.constructors[0].Params {
			deps = append(deps, Dependency{Type: p, Target: fmt.Sprintf("param %d", i)})
		}
	}

	for _, f := range breflect.TaggedFields(d.typ, TagKey) {
		dep := Dependency{Type: f.Type, Name: f.BeanName, Target: f.Name}
		if mt, ok := d.methodType(d.setterFor(f.Name)); ok && mt.NumIn() == 1 {
			dep.Type = mt.In(0)
		}
		deps = append(deps, dep)
	}

	for _, name := range d.injectMethods {
		if mt, ok := d.methodType(name); ok && mt.NumIn() == 1 {
			deps = append(deps, Dependency{Type: mt.In(0), Target: name})
		}
	}

	return deps
}

func (d *Definition) setterFor(field string) string {
	if method, ok := d.setters[field]; ok {
		return method
	}
	return breflect.SetterName(field)
}

// methodType returns the signature of a method callable on an instance,
// receiver excluded.
func (d *Definition) methodType(name string) (reflect.Type, bool) {
	t := d.typ
	if t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface {
		t = reflect.PointerTo(t)
	}
	m, ok := t.MethodByName(name)
	if !ok {
		return nil, false
	}
	if t.Kind() == reflect.Interface {
		return m.Type, true
	}
	in := make([]reflect.Type, 0, m.Type.NumIn()-1)
	for i := 1; i < m.Type.NumIn(); i++ {
		in = append(in, m.Type.In(i))
	}
	out := make([]reflect.Type, 0, m.Type.NumOut())
	for i := 0; i < m.Type.NumOut(); i++ {
		out = append(out, m.Type.Out(i))
	}
	return reflect.FuncOf(in, out, m.Type.IsVariadic()), true
}

func (d *Definition) String() string {
	return fmt.Sprintf("Definition{name=%s, type=%s}", d.name, typeName(d.typ))
}

// Compare orders definitions that need arguments before those that do not.
// Definitions on the same side compare equal. It is a heuristic tie-break,
// not a dependency sort.
func Compare(a, b *Definition) int {
	aDefault, bDefault := a.HasOnlyDefaultConstructor(), b.HasOnlyDefaultConstructor()
	switch {
	case aDefault == bDefault:
		return 0
	case aDefault:
		return 1
	default:
		return -1
	}
}

// SortDefinitions stable-sorts defs with Compare.
func SortDefinitions(defs []*Definition) {
	slices.SortStableFunc(defs, Compare)
}
