package bobbin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"

	"go.uber.org/zap"

	breflect "github.com/danpasecinic/bobbin/internal/reflect"
)

const (
	HighestPrecedence = math.MinInt
	LowestPrecedence  = math.MaxInt
)

// PostProcessor hooks into every bean creation. Both callbacks may return a
// replacement for the bean; it must be non-nil and assignable to the bean's
// declared type.
type PostProcessor interface {
	BeforeInit(ctx context.Context, c *Container, bean any, name string) (any, error)
	AfterInit(ctx context.Context, c *Container, bean any, name string) (any, error)
}

// Ordered post-processors run in ascending Order. Others count as 0.
type Ordered interface {
	Order() int
}

// PostProcessorFuncs adapts plain functions. Nil callbacks pass the bean through.
type PostProcessorFuncs struct {
	Before   func(ctx context.Context, c *Container, bean any, name string) (any, error)
	After    func(ctx context.Context, c *Container, bean any, name string) (any, error)
	Priority int
}

func (f PostProcessorFuncs) BeforeInit(ctx context.Context, c *Container, bean any, name string) (any, error) {
	if f.Before == nil {
		return bean, nil
	}
	return f.Before(ctx, c, bean, name)
}

func (f PostProcessorFuncs) AfterInit(ctx context.Context, c *Container, bean any, name string) (any, error) {
	if f.After == nil {
		return bean, nil
	}
	return f.After(ctx, c, bean, name)
}

func (f PostProcessorFuncs) Order() int {
	return f.Priority
}

type orderedProcessor struct {
	processor PostProcessor
	order     int
}

func newOrderedProcessor(p PostProcessor) orderedProcessor {
	op := orderedProcessor{processor: p}
	if o, ok := p.(Ordered); ok {
		op.order = o.Order()
	}
	return op
}

// AddPostProcessor appends p to the chain. The chain is sorted and frozen
// when the first bean is created; adding after that fails.
func (c *Container) AddPostProcessor(p PostProcessor) error {
	if breflect.IsNil(p) {
		return errInvalidProcessor(errors.New("post-processor is nil"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return errChainFrozen()
	}
	c.processors = append(c.processors, newOrderedProcessor(p))
	return nil
}

// PostProcessors returns the chain in execution order.
func (c *Container) PostProcessors() []PostProcessor {
	c.freezeChain()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.chain)
}

// freezeChain sorts the registered processors once. The injection
// processor goes last so it runs after any other lowest-precedence entry.
func (c *Container) freezeChain() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return
	}

	ordered := append(slices.Clone(c.processors), newOrderedProcessor(InjectionProcessor{}))
	slices.SortStableFunc(ordered, func(a, b orderedProcessor) int {
		switch {
		case a.order < b.order:
			return -1
		case a.order > b.order:
			return 1
		default:
			return 0
		}
	})

	c.chain = make([]PostProcessor, len(ordered))
	for i, op := range ordered {
		c.chain[i] = op.processor
	}
	c.frozen = true
}

func (c *Container) applyProcessors(ctx context.Context, name string, def *Definition, bean any) (any, error) {
	for _, p := range c.chain {
		next, err := p.BeforeInit(ctx, c, bean, name)
		if err != nil {
			return nil, wrapProcessorError(name, "BeforeInit", err)
		}
		if bean, err = checkReplacement(name, def, next); err != nil {
			return nil, err
		}
	}

	for _, p := range c.chain {
		next, err := p.AfterInit(ctx, c, bean, name)
		if err != nil {
			return nil, wrapProcessorError(name, "AfterInit", err)
		}
		if bean, err = checkReplacement(name, def, next); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("post-processed bean", zap.String("bean", name), zap.Int("processors", len(c.chain)))
	return bean, nil
}

func checkReplacement(name string, def *Definition, bean any) (any, error) {
	if breflect.IsNil(bean) {
		return nil, errBeanInstantiation(name, "", errors.New("post-processor returned nil"))
	}
	if t := reflect.TypeOf(bean); !t.AssignableTo(def.typ) {
		return nil, errBeanInstantiation(
			name, "",
			fmt.Errorf("post-processor returned %s, not assignable to %s", t, def.typ),
		)
	}
	return bean, nil
}

func wrapProcessorError(name, phase string, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Bean == name {
		return err
	}
	return errBeanInstantiation(name, phase, err)
}
