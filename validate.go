package bobbin

import (
	"errors"
	"reflect"

	"github.com/danpasecinic/bobbin/internal/graph"
)

// Validate checks the registered definitions without creating anything:
// every declared dependency must resolve, construction must be decidable,
// and the declared graph must be acyclic.
func (c *Container) Validate() error {
	g, errs := c.declaredGraph()

	for _, path := range g.CyclePaths() {
		errs = append(errs, errCircularDependency(path))
	}

	if len(errs) > 0 {
		return errValidationFailed(errors.Join(errs...))
	}
	return nil
}

// declaredGraph builds the bean graph from definitions, following
// synthesized definitions of unregistered struct dependencies, and merges
// the edges recorded while beans were actually created.
func (c *Container) declaredGraph() (*graph.Graph, []error) {
	type pending struct {
		name string
		def  *Definition
	}

	g := graph.New()
	var errs []error

	types := make(map[string]reflect.Type)
	owner := func(name string) (reflect.Type, bool) {
		if t, ok := types[name]; ok {
			return t, true
		}
		return c.typeOfName(name)
	}

	var queue []pending
	for _, name := range c.registry.Names() {
		if def, ok := c.Definition(name); ok {
			queue = append(queue, pending{name: name, def: def})
			types[name] = def.typ
		}
	}

	seen := make(map[string]bool)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if seen[p.name] {
			continue
		}
		seen[p.name] = true
		g.AddNode(p.name)

		if err := checkConstructible(p.name, p.def); err != nil {
			errs = append(errs, err)
		}

		for _, dep := range p.def.Dependencies() {
			depName, depDef, err := c.staticLookup(dep)
			if err != nil {
				errs = append(errs, errBeanInstantiation(p.name, dep.Target, err))
				continue
			}
			if t, ok := types[depName]; ok && t != depDef.typ {
				depName = beanNameFor(depDef.typ, owner)
			}
			types[depName] = depDef.typ
			g.AddEdge(p.name, depName)
			if !seen[depName] {
				queue = append(queue, pending{name: depName, def: depDef})
			}
		}
	}

	for _, name := range c.graph.Nodes() {
		for _, dep := range c.graph.Dependencies(name) {
			g.AddEdge(name, dep)
		}
	}
	return g, errs
}

func (c *Container) staticLookup(dep Dependency) (string, *Definition, error) {
	if dep.Name != "" {
		def, ok := c.Definition(dep.Name)
		if !ok {
			return "", nil, errNoSuchBeanNamed(dep.Name)
		}
		return dep.Name, def, nil
	}

	name, ok, err := c.lookup(dep.Type)
	if err != nil {
		return "", nil, err
	}
	if ok {
		def, _ := c.Definition(name)
		return name, def, nil
	}

	def, err := c.GetBeanDefinition(dep.Type)
	if err != nil {
		return "", nil, err
	}
	return def.name, def, nil
}

func checkConstructible(name string, def *Definition) error {
	switch {
	case def.prebuilt || def.HasFactoryMethod():
		return nil
	case len(def.constructors) > 1:
		return errAmbiguousConstructor(name, len(def.constructors))
	case len(def.constructors) == 0 && def.IsAbstract():
		return errUnresolvableType(name, def.typ)
	default:
		return nil
	}
}
