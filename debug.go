package bobbin

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

type GraphInfo struct {
	Beans []BeanInfo
}

type BeanInfo struct {
	Name         string
	Type         string
	Dependencies []string
	Dependents   []string
	Instantiated bool
}

// Graph describes registered beans with their declared and observed
// dependencies, sorted by name. Unregistered struct dependencies that would
// be synthesized on demand are included.
func (c *Container) Graph() GraphInfo {
	g, _ := c.declaredGraph()

	names := g.Nodes()
	sort.Strings(names)

	beans := make([]BeanInfo, 0, len(names))
	for _, name := range names {
		info := BeanInfo{
			Name:         name,
			Dependencies: g.Dependencies(name),
			Dependents:   g.Dependents(name),
		}
		if def, ok := c.Definition(name); ok {
			info.Type = typeName(def.typ)
		}
		_, info.Instantiated = c.registry.Instance(name)
		beans = append(beans, info)
	}

	return GraphInfo{Beans: beans}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Beans) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, bean := range info.Beans {
		status := "○"
		if bean.Instantiated {
			status = "●"
		}

		if len(bean.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, bean.Name)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, bean.Name, strings.Join(bean.Dependencies, ", "))
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph beans {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, bean := range info.Beans {
		style := ""
		if bean.Instantiated {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", bean.Name, dotLabel(bean), style)
	}

	_, _ = fmt.Fprintln(w)

	for _, bean := range info.Beans {
		for _, dep := range bean.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", bean.Name, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

func dotLabel(bean BeanInfo) string {
	if bean.Type == "" {
		return bean.Name
	}
	t := strings.ReplaceAll(bean.Type, "*", "")
	if idx := strings.LastIndex(t, "/"); idx != -1 {
		t = t[idx+1:]
	}
	return bean.Name + "\n" + t
}

// Plan returns bean names in an order where every bean comes after the
// beans it declares as dependencies. It fails when the declared graph has a
// cycle.
func (c *Container) Plan() ([]string, error) {
	g, _ := c.declaredGraph()

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, errValidationFailed(err).WithStack(firstCycle(g.CyclePaths()))
	}
	return order, nil
}

func firstCycle(paths [][]string) []string {
	if len(paths) == 0 {
		return nil
	}
	return paths[0]
}
