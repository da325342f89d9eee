package main

import (
	"bytes"
	"flag"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/2x3systems/tagkit/tagkit"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.toml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CatalogPath != "defs.db" || cfg.MaxPasses != 50 || !cfg.Trace || cfg.StepLimit != 0 {
		t.Fatalf("bad toml config %+v", cfg)
	}

	cfg, err = LoadConfig("testdata/config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StepLimit != 4096 || cfg.MaxPasses != tagkit.DefaultMaxPasses || cfg.Trace {
		t.Fatalf("bad yaml config %+v", cfg)
	}

	opts := cfg.RunOpts()
	if opts.Lex.StepLimit != 4096 || opts.Parse.MaxPasses != tagkit.DefaultMaxPasses {
		t.Fatalf("bad run opts %+v", opts)
	}

	if _, err = LoadConfig("testdata/bad.yaml"); err == nil {
		t.Fatal("negative limits should be rejected")
	}
	if _, err = LoadConfig("testdata/config.ini"); err == nil {
		t.Fatal("unknown formats should be rejected")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(flag.NewFlagSet("", flag.ContinueOnError))
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, pathname, contents string) {
	t.Helper()
	if err := os.WriteFile(pathname, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--def", "../../examples/numbers.tk", "3 4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"34"`) || !strings.Contains(out, "1 nodes, 1 matches") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err = execute(t, "run", "3 4"); err == nil {
		t.Fatal("run without a definition should fail")
	}
}

func TestPassCeilingFlag(t *testing.T) {
	dir := t.TempDir()
	defPath := path.Join(dir, "loop.tk")
	writeFile(t, defPath, `parser { rule "a" => combine "a" }`)

	_, err := execute(t, "run", "--def", defPath, "--max-passes", "5", "a")
	if err == nil || !strings.Contains(err.Error(), "ceiling of 5 passes") {
		t.Fatalf("expected the pass ceiling error, got %v", err)
	}
}

func TestCatalogCommands(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "catalog")

	if _, err := execute(t, "--catalog", dbPath, "catalog", "put", "numbers", "../../examples/numbers.tk"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--catalog", dbPath, "catalog", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "numbers") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	out, err = execute(t, "--catalog", dbPath, "run", "--name", "numbers", "5 6")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"56"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err = execute(t, "--catalog", dbPath, "catalog", "rm", "numbers"); err != nil {
		t.Fatal(err)
	}
	if _, err = execute(t, "--catalog", dbPath, "catalog", "get", "numbers"); err == nil {
		t.Fatal("expected a missing entry")
	}
}

func TestScript(t *testing.T) {
	out := &bytes.Buffer{}
	if err := runScript("../../examples/demo.py", out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "execution complete") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}
