package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/danpasecinic/bobbin"
	"github.com/danpasecinic/bobbin/config"
	"github.com/danpasecinic/bobbin/internal/demo"
)

type app struct {
	configPath string
	broken     bool
	registry   *prometheus.Registry
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bobbin",
		Short: "Inspect and start the demo bean container",
		Long: `bobbin wires the demo bookshop with the bobbin container.
Use it to print the bean graph, validate the definitions or run a full
start and close cycle.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./bobbin.yaml)")
	root.PersistentFlags().BoolVar(&a.broken, "broken", false, "use the manifest with a dependency cycle")

	root.AddCommand(newGraphCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newStartCmd(a))

	return root
}

// container loads the configuration and applies the demo manifest.
func (a *app) container() (*bobbin.Container, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.registry = prometheus.NewRegistry()

	opts, err := cfg.Options(a.registry)
	if err != nil {
		return nil, err
	}

	c := bobbin.New(opts...)
	module := demo.Module(c.Logger())
	if a.broken {
		module = demo.BrokenModule()
	}
	if err := c.Apply(module); err != nil {
		return nil, err
	}
	return c, nil
}
