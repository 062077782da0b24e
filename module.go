package bobbin

import "fmt"

// Module is a named manifest of definitions, prebuilt instances, interface
// bindings and post-processors. It is how a bootstrap layer hands the
// container its finite set of beans.
type Module struct {
	name       string
	entries    []func(c *Container) error
	submodules []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

// Add registers definitions when the module is applied.
func (m *Module) Add(defs ...*Definition) *Module {
	for _, def := range defs {
		m.entries = append(m.entries, func(c *Container) error {
			return c.Register(def)
		})
	}
	return m
}

// Instance registers a prebuilt singleton when the module is applied.
func (m *Module) Instance(name string, value any) *Module {
	m.entries = append(m.entries, func(c *Container) error {
		return c.RegisterInstance(name, value)
	})
	return m
}

func (m *Module) PostProcessor(p PostProcessor) *Module {
	m.entries = append(m.entries, func(c *Container) error {
		return c.AddPostProcessor(p)
	})
	return m
}

// Include applies submodule before this module's own entries.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) apply(c *Container) error {
	for _, sub := range m.submodules {
		if err := sub.apply(c); err != nil {
			return fmt.Errorf("module %s: %w", sub.name, err)
		}
	}

	for _, entry := range m.entries {
		if err := entry(c); err != nil {
			return err
		}
	}
	return nil
}

// Apply registers every module in order, stopping at the first error.
func (c *Container) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(c); err != nil {
			return fmt.Errorf("module %s: %w", m.name, err)
		}
	}
	return nil
}

// ModuleBind records a Bind[I, T] to run when the module is applied.
func ModuleBind[I, T any](m *Module) *Module {
	m.entries = append(m.entries, func(c *Container) error {
		return Bind[I, T](c)
	})
	return m
}
