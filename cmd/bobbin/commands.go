package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danpasecinic/bobbin"
)

var (
	created = color.New(color.FgGreen)
	pending = color.New(color.FgHiBlack)
	failed  = color.New(color.FgRed, color.Bold)
	heading = color.New(color.Bold, color.FgCyan)
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		dot     bool
		started bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the bean dependency graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			if started {
				if err := c.Start(cmd.Context()); err != nil {
					return err
				}
				defer func() {
					_ = c.Close(cmd.Context())
				}()
			}

			out := cmd.OutOrStdout()
			if dot {
				c.FprintGraphDOT(out)
				return nil
			}
			printGraph(out, c.Graph())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz DOT instead of text")
	cmd.Flags().BoolVar(&started, "started", false, "start the container before printing")
	return cmd
}

func printGraph(w io.Writer, info bobbin.GraphInfo) {
	if len(info.Beans) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, bean := range info.Beans {
		status := pending.Sprint("○")
		if bean.Instantiated {
			status = created.Sprint("●")
		}

		line := fmt.Sprintf("%s %s", status, bean.Name)
		if len(bean.Dependencies) > 0 {
			line += " ← " + strings.Join(bean.Dependencies, ", ")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every definition without creating beans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := c.Validate(); err != nil {
				_, _ = failed.Fprintln(out, "✗ validation failed")
				printCauses(out, err)
				return err
			}

			_, _ = created.Fprintf(out, "✓ %d beans valid\n", c.Size())
			return nil
		},
	}
}

// printCauses lists the individual problems joined inside a validation error.
func printCauses(w io.Writer, err error) {
	var berr *bobbin.Error
	if !errors.As(err, &berr) || berr.Cause == nil {
		return
	}

	joined, ok := berr.Cause.(interface{ Unwrap() []error })
	if !ok {
		_, _ = fmt.Fprintf(w, "  - %v\n", berr.Cause)
		return
	}
	for _, cause := range joined.Unwrap() {
		_, _ = fmt.Fprintf(w, "  - %v\n", cause)
	}
}

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Create every bean, then close the container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if a.cfg.Container.ValidateOnStart {
				if err := c.Validate(); err != nil {
					_, _ = failed.Fprintln(out, "✗ validation failed")
					printCauses(out, err)
					return err
				}
			}

			plan, err := c.Plan()
			if err != nil {
				return err
			}
			_, _ = heading.Fprintln(out, "plan")
			for i, name := range plan {
				_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, name)
			}

			if err := c.Start(ctx); err != nil {
				_, _ = failed.Fprintln(out, "✗ start failed")
				return err
			}
			_, _ = created.Fprintf(out, "✓ started %d beans\n", c.Size())

			if a.cfg.Container.Metrics {
				if err := printMetrics(out, a); err != nil {
					return err
				}
			}

			if err := c.Close(ctx); err != nil {
				_, _ = failed.Fprintln(out, "✗ close failed")
				return err
			}
			_, _ = created.Fprintln(out, "✓ closed")
			return nil
		},
	}
}

func printMetrics(w io.Writer, a *app) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	_, _ = heading.Fprintln(w, "metrics")
	for _, f := range families {
		var total float64
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		_, _ = fmt.Fprintf(w, "  %s %g\n", f.GetName(), total)
	}
	return nil
}
