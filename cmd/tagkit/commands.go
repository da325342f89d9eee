package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2x3systems/tagkit/catalog"
	"github.com/2x3systems/tagkit/grammar"
	"github.com/2x3systems/tagkit/pytagkit"
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens TEXT",
		Short: "Print the tagged per-character tokens of TEXT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := tagkit.Tokenize(args[0], "<arg>")
			tagkit.WriteTokens(cmd.OutOrStdout(), tokens, tagkit.DefaultPrintOpts)
			return nil
		},
	}
}

func (a *app) newRunCmd() *cobra.Command {
	var (
		defPath   string
		defName   string
		inputPath string
		showToks  bool
	)

	cmd := &cobra.Command{
		Use:   "run [TEXT]",
		Short: "Lex and parse text with a definition, printing the resulting tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.loadDefinition(defPath, defName)
			if err != nil {
				return err
			}

			text, file, err := readInput(inputPath, args)
			if err != nil {
				return err
			}

			res, err := def.Run(text, file, a.cfg.RunOpts())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showToks {
				tagkit.WriteTokens(out, res.Tokens, tagkit.DefaultPrintOpts)
				fmt.Fprintln(out)
			}
			tagkit.WriteNodes(out, res.Nodes, tagkit.DefaultPrintOpts)
			fmt.Fprintf(out, "%d nodes, %d matches in %d passes\n", len(res.Nodes), res.Stats.Matches, res.Stats.Passes)
			return nil
		},
	}

	cmd.Flags().StringVar(&defPath, "def", "", "definition file")
	cmd.Flags().StringVar(&defName, "name", "", "definition name in the catalog")
	cmd.Flags().StringVar(&inputPath, "file", "", "input file (default: TEXT argument)")
	cmd.Flags().BoolVar(&showToks, "tokens", false, "also print the lexer output")
	return cmd
}

func (a *app) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage stored definitions",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "put NAME FILE",
			Short: "Validate and store a definition file under NAME",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				src, err := os.ReadFile(args[1])
				if err != nil {
					return err
				}
				return a.withCatalog(false, func(cat *catalog.Catalog) error {
					entry, err := cat.Put(args[0], string(src))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", entry.Name, entry.Revision)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "get NAME",
			Short: "Print a stored definition",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCatalog(true, func(cat *catalog.Catalog) error {
					entry, err := cat.Get(args[0])
					if err != nil {
						return err
					}
					io.WriteString(cmd.OutOrStdout(), entry.Source)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored definitions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCatalog(true, func(cat *catalog.Catalog) error {
					entries, err := cat.List()
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					for _, entry := range entries {
						fmt.Fprintf(out, "%-24s %s  %s\n", entry.Name, entry.Revision, entry.Updated.Format("2006-01-02 15:04:05"))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rm NAME",
			Short: "Delete a stored definition",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCatalog(false, func(cat *catalog.Catalog) error {
					return cat.Delete(args[0])
				})
			},
		},
	)
	return cmd
}

func (a *app) newScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script [FILE.py]",
		Short: "Run a Python script with the tagkit module (REPL if no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pytagkit.SetRunOpts(a.cfg.RunOpts())
			pathname := ""
			if len(args) > 0 {
				pathname = args[0]
			}
			return runScript(pathname, cmd.OutOrStdout())
		},
	}
}

func (a *app) withCatalog(readOnly bool, fn func(cat *catalog.Catalog) error) error {
	if readOnly {
		if _, err := os.Stat(a.cfg.CatalogPath); os.IsNotExist(err) {
			return errors.Errorf("catalog %q does not exist", a.cfg.CatalogPath)
		}
	}
	cat, err := catalog.Open(catalog.Opts{
		DbPathName: a.cfg.CatalogPath,
		ReadOnly:   readOnly,
	})
	if err != nil {
		return err
	}
	defer cat.Close()
	return fn(cat)
}

func (a *app) loadDefinition(defPath, defName string) (*grammar.Definition, error) {
	switch {
	case defPath != "" && defName != "":
		return nil, errors.New("--def and --name are mutually exclusive")
	case defPath != "":
		src, err := os.ReadFile(defPath)
		if err != nil {
			return nil, err
		}
		return grammar.Compile(defPath, string(src))
	case defName != "":
		var def *grammar.Definition
		err := a.withCatalog(true, func(cat *catalog.Catalog) error {
			var err error
			def, err = cat.Load(defName)
			return err
		})
		return def, err
	}
	return nil, errors.New("one of --def or --name is required")
}

func readInput(inputPath string, args []string) (text, file string, err error) {
	switch {
	case inputPath != "" && len(args) > 0:
		return "", "", errors.New("give either --file or TEXT, not both")
	case inputPath != "":
		buf, err := os.ReadFile(inputPath)
		if err != nil {
			return "", "", err
		}
		return string(buf), inputPath, nil
	case len(args) > 0:
		return args[0], "<arg>", nil
	}
	buf, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSuffix(string(buf), "\n"), "<stdin>", nil
}
