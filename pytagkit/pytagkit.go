package pytagkit

import (
	"strings"
	"sync/atomic"

	"github.com/2x3systems/tagkit/catalog"
	"github.com/2x3systems/tagkit/grammar"
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/go-python/gpython/py"
	"github.com/pkg/errors"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyDefinitionType = py.NewType("Definition", "a compiled lexer and parser pair")
	pyCatalogType    = py.NewType("Catalog", "a store of named definitions")
	pyWorkspaceType  = py.NewType("Workspace", "collects active session resources and catalogs")
)

const (
	kWorkspaceAttr = "_Workspace"
)

// Opts applied to every Run issued from a script.
var gRunOpts atomic.Value

// SetRunOpts sets the lex and parse options scripts run with.
func SetRunOpts(opts grammar.RunOpts) {
	gRunOpts.Store(opts)
}

func runOpts() grammar.RunOpts {
	opts, _ := gRunOpts.Load().(grammar.RunOpts)
	return opts
}

type pyDefinition struct {
	*grammar.Definition
}

func (def pyDefinition) Type() *py.Type {
	return pyDefinitionType
}

func (def pyDefinition) M__str__() (py.Object, error) {
	b := strings.Builder{}
	b.WriteString(def.Name)
	b.WriteString(":\n")
	for _, r := range def.Lexer.Routines {
		b.WriteString("  routine ")
		b.WriteString(r.Name)
		b.WriteString("\n")
	}
	for _, rule := range def.Parser.Rules {
		b.WriteString("  ")
		b.WriteString(rule.String())
		b.WriteString("\n")
	}
	return py.String(b.String()), nil
}

func (def pyDefinition) M__repr__() (py.Object, error) {
	return def.M__str__()
}

func tagsTuple(tags *tagkit.TagSet) py.Tuple {
	list := tags.Tags()
	tuple := make(py.Tuple, len(list))
	for i, tag := range list {
		tuple[i] = py.String(tag)
	}
	return tuple
}

// exportNode returns (content, (tags...), (children...))
func exportNode(n *tagkit.Node) py.Tuple {
	children := make(py.Tuple, len(n.Children))
	for i, child := range n.Children {
		children[i] = exportNode(child)
	}
	return py.Tuple{
		py.String(n.Content),
		tagsTuple(&n.Tags),
		children,
	}
}

// Arg 1 (str): text
// Arg 2 (str): file name (optional)
func py_Tokenize(module py.Object, args py.Tuple) (py.Object, error) {
	var text, file string
	err := py.LoadTuple(args, []interface{}{&text, &file})
	if err != nil {
		return nil, err
	}

	tokens := tagkit.Tokenize(text, file)
	out := make(py.Tuple, len(tokens))
	for i := range tokens {
		tok := &tokens[i]
		out[i] = py.Tuple{
			py.String(tok.Content()),
			tagsTuple(&tok.Tags),
			py.Int(tok.Line),
			py.Int(tok.Char),
		}
	}
	return out, nil
}

// Arg 1 (str): definition source
// Arg 2 (str): definition name (optional)
func py_Compile(module py.Object, args py.Tuple) (py.Object, error) {
	var src, name string
	err := py.LoadTuple(args, []interface{}{&src, &name})
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "<script>"
	}

	def, err := grammar.Compile(name, src)
	if err != nil {
		return nil, py.ExceptionNewf(py.SyntaxError, "%v", err)
	}
	return pyDefinition{def}, nil
}

// Arg 1 (str): text
// Arg 2 (str): file name (optional)
func py_Definition_Run(self py.Object, args py.Tuple) (py.Object, error) {
	def := self.(pyDefinition)

	var text, file string
	err := py.LoadTuple(args, []interface{}{&text, &file})
	if err != nil {
		return nil, err
	}

	res, err := def.Run(text, file, runOpts())
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	nodes := make(py.Tuple, len(res.Nodes))
	for i, n := range res.Nodes {
		nodes[i] = exportNode(n)
	}
	return nodes, nil
}

func py_Definition_Routines(self py.Object, args py.Tuple) (py.Object, error) {
	def := self.(pyDefinition)
	names := make(py.Tuple, len(def.Lexer.Routines))
	for i, r := range def.Lexer.Routines {
		names[i] = py.String(r.Name)
	}
	return names, nil
}

type Workspace struct {
	catalogs []*catalog.Catalog
}

func (ws *Workspace) Close() {
	for _, cat := range ws.catalogs {
		cat.Close()
	}
	ws.catalogs = nil
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		wsObj = &Workspace{}
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

// Arg 1 (str): catalog pathname ("" for in-memory)
// Arg 2 (bool): read-only (optional)
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var opts catalog.Opts
	err := py.LoadTuple(args, []interface{}{&opts.DbPathName, &opts.ReadOnly})
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Open(opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	ws.catalogs = append(ws.catalogs, cat)
	return pyCatalog{cat}, nil
}

type pyCatalog struct {
	*catalog.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

// Arg 1 (str): name
// Arg 2 (str): definition source
func py_Catalog_Put(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", catalog.ErrReadOnly)
	}

	var name, src string
	err := py.LoadTuple(args, []interface{}{&name, &src})
	if err != nil {
		return nil, err
	}
	entry, err := cat.Put(name, src)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.String(entry.Revision), nil
}

func py_Catalog_Load(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	var name string
	err := py.LoadTuple(args, []interface{}{&name})
	if err != nil {
		return nil, err
	}
	def, err := cat.Load(name)
	if errors.Cause(err) == tagkit.ErrNotFound {
		return nil, py.ExceptionNewf(py.KeyError, "%v", err)
	} else if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return pyDefinition{def}, nil
}

func py_Catalog_List(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	entries, err := cat.List()
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	names := make(py.Tuple, len(entries))
	for i, entry := range entries {
		names[i] = py.String(entry.Name)
	}
	return names, nil
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if err := cat.Close(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

func init() {

	/////////////////////////////////
	// Definition
	{
		pyDefinitionType.Dict["Run"] = py.MustNewMethod("Run", py_Definition_Run, 0, "lexes and parses text, returning (content, tags, children) tuples")
		pyDefinitionType.Dict["Routines"] = py.MustNewMethod("Routines", py_Definition_Routines, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Put"] = py.MustNewMethod("Put", py_Catalog_Put, 0, "stores a definition source, returning its revision")
		pyCatalogType.Dict["Load"] = py.MustNewMethod("Load", py_Catalog_Load, 0, "")
		pyCatalogType.Dict["List"] = py.MustNewMethod("List", py_Catalog_List, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Tokenize", py_Tokenize, 0, "splits text into one tagged token per character"),
			py.MustNewMethod("Compile", py_Compile, 0, "compiles definition source into a Definition"),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MAX_PASSES":  py.Int(tagkit.DefaultMaxPasses),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "tagkit",
				Doc:  "lexer and tag-rewriting parser kit",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
