package bobbin

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	breflect "github.com/danpasecinic/bobbin/internal/reflect"
)

// Injectable beans name extra setter methods to inject after creation, in
// addition to those declared with WithInjectMethod.
type Injectable interface {
	InjectMethods() []string
}

// InjectionProcessor wires tagged fields and injection methods. Every
// container runs it last in its chain.
//
// A tagged field is injected through its setter when one exists (bound with
// WithSetter, or named Set<Field> by convention) and assigned directly
// otherwise, unexported fields included.
type InjectionProcessor struct{}

func (InjectionProcessor) Order() int {
	return LowestPrecedence
}

func (InjectionProcessor) BeforeInit(_ context.Context, _ *Container, bean any, _ string) (any, error) {
	return bean, nil
}

func (p InjectionProcessor) AfterInit(ctx context.Context, c *Container, bean any, name string) (any, error) {
	v := reflect.ValueOf(bean)

	// Struct values are injected through an addressable copy that replaces them.
	copied := false
	if v.Kind() == reflect.Struct {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
		copied = true
	}

	def, _ := c.Definition(name)

	if v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.Struct {
		for _, f := range breflect.TaggedFields(v.Type(), TagKey) {
			if err := p.injectField(ctx, c, name, def, v, f); err != nil {
				return nil, err
			}
		}
	}

	for _, method := range injectMethods(def, bean) {
		if err := p.injectMethod(ctx, c, name, v, method, ""); err != nil {
			return nil, err
		}
	}

	if copied {
		return v.Elem().Interface(), nil
	}
	return bean, nil
}

func injectMethods(def *Definition, bean any) []string {
	var methods []string
	if def != nil {
		methods = append(methods, def.injectMethods...)
	}
	if inj, ok := bean.(Injectable); ok {
		for _, m := range inj.InjectMethods() {
			if !slices.Contains(methods, m) {
				methods = append(methods, m)
			}
		}
	}
	return methods
}

func (p InjectionProcessor) injectField(
	ctx context.Context,
	c *Container,
	name string,
	def *Definition,
	target reflect.Value,
	f breflect.Field,
) error {
	c.logger.Debug(
		"injecting field",
		zap.String("bean", name),
		zap.String("field", f.Name),
		zap.String("type", typeName(f.Type)),
	)

	bound := false
	setter := breflect.SetterName(f.Name)
	if def != nil {
		if method, ok := def.setters[f.Name]; ok {
			setter, bound = method, true
		}
	}

	if target.MethodByName(setter).IsValid() {
		return p.injectMethod(ctx, c, name, target, setter, f.BeanName)
	}
	if bound {
		return errInvalidInjectionTarget(name, setter, fmt.Sprintf("bound to field %s but not declared", f.Name))
	}

	value, err := c.resolveDependency(ctx, name, f.Type, f.BeanName)
	if err != nil {
		return errBeanInstantiation(name, f.Name, err)
	}

	breflect.SetField(target.Elem().FieldByIndex(f.Index), value)
	return nil
}

func (p InjectionProcessor) injectMethod(
	ctx context.Context,
	c *Container,
	name string,
	target reflect.Value,
	method string,
	beanName string,
) error {
	m := target.MethodByName(method)
	if !m.IsValid() {
		return errInvalidInjectionTarget(name, method, "no such method")
	}
	if !breflect.IsSetter(method, m.Type()) {
		return errInvalidInjectionTarget(name, method, "a setter must be named SetX, take one argument and return nothing")
	}

	c.logger.Debug("injecting through method", zap.String("bean", name), zap.String("method", method))

	arg, err := c.resolveDependency(ctx, name, m.Type().In(0), beanName)
	if err != nil {
		return errBeanInstantiation(name, method, err)
	}

	if err := callSetter(m, arg); err != nil {
		return errBeanInstantiation(name, method, err)
	}
	return nil
}

func callSetter(m, arg reflect.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	m.Call([]reflect.Value{arg})
	return nil
}
