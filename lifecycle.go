package bobbin

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Initializer beans are called once injection has finished.
type Initializer interface {
	Init(ctx context.Context) error
}

// Disposer beans are called by Close, in reverse creation order.
type Disposer interface {
	Dispose(ctx context.Context) error
}

// Start creates every registered bean that does not exist yet. Beans that
// need arguments are considered before default-constructible ones, and
// registration order is kept otherwise. Dependencies are still created
// first, on demand.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateNew {
		state := c.state
		c.mu.Unlock()
		return errInvalidState("start", state)
	}
	c.state = StateStarting
	c.mu.Unlock()

	var pending []*Definition
	for _, name := range c.registry.Names() {
		if _, ok := c.registry.Instance(name); ok {
			continue
		}
		if def, ok := c.Definition(name); ok {
			pending = append(pending, def)
		}
	}
	SortDefinitions(pending)

	for _, def := range pending {
		if _, err := c.CreateBean(ctx, def.name, def); err != nil {
			c.setState(StateNew)
			return err
		}
	}

	c.setState(StateRunning)
	c.logger.Info("container started", zap.Int("beans", c.registry.Size()))
	return nil
}

// Close disposes created beans in reverse creation order. All Dispose
// errors are collected.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateClosing || c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosing
	c.mu.Unlock()

	created := c.registry.Created()
	slices.Reverse(created)

	var errs []error
	for _, name := range created {
		instance, _ := c.registry.Instance(name)
		d, ok := instance.(Disposer)
		if !ok {
			continue
		}

		c.logger.Debug("disposing bean", zap.String("bean", name))
		if err := d.Dispose(ctx); err != nil {
			errs = append(errs, fmt.Errorf("dispose %s: %w", name, err))
		}
	}

	c.setState(StateClosed)

	if len(errs) > 0 {
		return errShutdownFailed(errors.Join(errs...))
	}
	return nil
}
