package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	err := newRootCmd(fset).Execute()
	klog.Flush()

	if err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg        Config
	configPath string
}

func newRootCmd(fset *flag.FlagSet) *cobra.Command {
	a := &app{
		cfg: DefaultConfig,
	}

	root := &cobra.Command{
		Use:          "tagkit",
		Short:        "Run tag-based lexers and parsers over text",
		SilenceUsage: true,
	}
	root.PersistentFlags().AddGoFlagSet(fset)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "TOML or YAML config file")
	flags.Bool("trace", false, "trace lexer steps and parser matches")
	flags.String("catalog", DefaultConfig.CatalogPath, "catalog database directory")
	flags.Int("max-passes", DefaultConfig.MaxPasses, "parser fixpoint pass ceiling")
	flags.Int("step-limit", DefaultConfig.StepLimit, "lexer instruction budget per sweep attempt (0 scales with the input)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.loadConfig(cmd)
	}

	root.AddCommand(
		a.newTokensCmd(),
		a.newRunCmd(),
		a.newCatalogCmd(),
		a.newScriptCmd(),
	)
	return root
}

// loadConfig reads --config and then applies any flags set explicitly.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("trace") {
		a.cfg.Trace, _ = flags.GetBool("trace")
	}
	if flags.Changed("catalog") {
		a.cfg.CatalogPath, _ = flags.GetString("catalog")
	}
	if flags.Changed("max-passes") {
		a.cfg.MaxPasses, _ = flags.GetInt("max-passes")
	}
	if flags.Changed("step-limit") {
		a.cfg.StepLimit, _ = flags.GetInt("step-limit")
	}

	klog.V(1).Infof("config: %+v", a.cfg)
	return nil
}
