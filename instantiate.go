package bobbin

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	breflect "github.com/danpasecinic/bobbin/internal/reflect"
)

// instantiate builds the raw bean, before any post-processing. Arguments are
// resolved depth-first, so every dependency is created and cached before the
// constructor or factory that needs it runs.
func (c *Container) instantiate(ctx context.Context, name string, def *Definition) (any, error) {
	switch {
	case def.HasFactoryMethod():
		var receiver reflect.Value
		if def.declaringType != nil {
			v, err := c.resolveDependency(ctx, name, def.declaringType, "")
			if err != nil {
				return nil, errBeanInstantiation(name, "receiver "+typeName(def.declaringType), err)
			}
			receiver = v
		}
		c.logger.Debug("instantiating through factory", zap.String("bean", name), zap.String("method", def.factoryMethod))
		return c.invoke(ctx, name, *def.factory, receiver)

	case len(def.constructors) > 1:
		return nil, errAmbiguousConstructor(name, len(def.constructors))

	case len(def.constructors) == 1:
		c.logger.Debug("instantiating through constructor", zap.String("bean", name))
		return c.invoke(ctx, name, def.constructors[0], reflect.Value{})

	case def.IsAbstract():
		return nil, errUnresolvableType(name, def.typ)

	default:
		return breflect.Zero(def.typ).Interface(), nil
	}
}

func (c *Container) invoke(ctx context.Context, name string, sig breflect.Signature, receiver reflect.Value) (any, error) {
	args := make([]reflect.Value, 0, len(sig.Params)+1)
	if receiver.IsValid() {
		args = append(args, receiver)
	}

	for i, p := range sig.Params {
		v, err := c.resolveDependency(ctx, name, p, "")
		if err != nil {
			return nil, errBeanInstantiation(name, fmt.Sprintf("param %d (%s)", i, typeName(p)), err)
		}
		args = append(args, v)
	}

	out, err := sig.Call(args)
	if err != nil {
		return nil, errBeanInstantiation(name, "", err)
	}
	if breflect.IsNil(out.Interface()) {
		return nil, errBeanInstantiation(name, "", errors.New("constructor returned nil"))
	}
	return out.Interface(), nil
}
