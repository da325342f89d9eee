package catalog_test

import (
	"path"
	"testing"

	"github.com/2x3systems/tagkit/catalog"
	"github.com/2x3systems/tagkit/grammar"
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/pkg/errors"
)

const pairDef = `
lexer {
    routine ints { if "digit" add "int" }
    routine digits { tagfrags "digit" "0" "1" "2" "3" "4" "5" "6" "7" "8" "9" }
}
parser {
    rule "int" "int" => combine "pair"
}
`

func TestBasics(t *testing.T) {
	cat, err := catalog.Open(catalog.Opts{})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	first, err := cat.Put("pairs", pairDef)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cat.Put("pairs", pairDef)
	if err != nil {
		t.Fatal(err)
	}
	if first.Revision == second.Revision {
		t.Fatal("each Put should assign a new revision")
	}

	if _, err = cat.Put("broken", `lexer { routine r { goto x } }`); errors.Cause(err) != tagkit.ErrUndefinedLabel {
		t.Fatalf("invalid definitions should be rejected, got %v", err)
	}
	if _, err = cat.Put("alpha", `parser { rule "a" => annotate "b" }`); err != nil {
		t.Fatal(err)
	}

	entries, err := cat.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name != "alpha" || entries[1].Name != "pairs" {
		t.Fatalf("expected [alpha pairs], got %v", entries)
	}

	def, err := cat.Load("pairs")
	if err != nil {
		t.Fatal(err)
	}
	// ints runs before digits, so nothing is an int yet and nothing pairs up.
	res, err := def.Run("12", "input", grammar.RunOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Nodes) != 3 {
		t.Fatalf("routine order should be preserved, got %d nodes", len(res.Nodes))
	}

	if err = cat.Delete("alpha"); err != nil {
		t.Fatal(err)
	}
	if _, err = cat.Get("alpha"); errors.Cause(err) != tagkit.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err = cat.Delete("alpha"); errors.Cause(err) != tagkit.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReopen(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "TestReopen")

	cat, err := catalog.Open(catalog.Opts{DbPathName: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	put, err := cat.Put("pairs", pairDef)
	if err != nil {
		t.Fatal(err)
	}
	if err = cat.Close(); err != nil {
		t.Fatal(err)
	}

	cat, err = catalog.Open(catalog.Opts{DbPathName: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	got, err := cat.Get("pairs")
	if err != nil {
		t.Fatal(err)
	}
	if got.Revision != put.Revision || got.Source != pairDef || !got.Updated.Equal(put.Updated) {
		t.Fatalf("entry did not survive reopen: %+v", got)
	}
}

func TestUseAfterClose(t *testing.T) {
	cat, err := catalog.Open(catalog.Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = cat.Put("pairs", pairDef); err != nil {
		t.Fatal(err)
	}
	if err = cat.Close(); err != nil {
		t.Fatal(err)
	}
	if err = cat.Close(); err != nil {
		t.Fatalf("a second Close should be a no-op, got %v", err)
	}

	if _, err = cat.Put("pairs", pairDef); err != catalog.ErrClosed {
		t.Fatalf("Put: expected ErrClosed, got %v", err)
	}
	if _, err = cat.Get("pairs"); err != catalog.ErrClosed {
		t.Fatalf("Get: expected ErrClosed, got %v", err)
	}
	if _, err = cat.Load("pairs"); err != catalog.ErrClosed {
		t.Fatalf("Load: expected ErrClosed, got %v", err)
	}
	if _, err = cat.List(); err != catalog.ErrClosed {
		t.Fatalf("List: expected ErrClosed, got %v", err)
	}
	if err = cat.Delete("pairs"); err != catalog.ErrClosed {
		t.Fatalf("Delete: expected ErrClosed, got %v", err)
	}
}

func TestReadOnlyNeedsPath(t *testing.T) {
	if _, err := catalog.Open(catalog.Opts{ReadOnly: true}); err == nil {
		t.Fatal("read-only in-memory catalog should be refused")
	}
}
