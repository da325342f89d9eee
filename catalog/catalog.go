package catalog

import (
	"runtime"
	"time"

	"github.com/2x3systems/tagkit/grammar"
	"github.com/2x3systems/tagkit/tagkit"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gDefPrefix, Name      => Entry (protobuf, see entry.pb.go)

Entries are keyed by name so List() walks them in name order.

***/

var (
	gDefPrefix = []byte("def/")

	ErrReadOnly = errors.New("catalog is in read-only mode")
	ErrClosed   = errors.New("catalog is closed")
)

// Opts specifies params for opening a Catalog
type Opts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Entry is one stored definition.
type Entry struct {
	Name     string
	Source   string
	Revision string // changes on every Put
	Updated  time.Time
}

// Catalog is a db wrapper holding named definition sources.
type Catalog struct {
	db       *badger.DB
	readOnly bool
}

func Open(opts Opts) (*Catalog, error) {
	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.New("DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %q", opts.DbPathName)
	}

	klog.V(1).Infof("opened catalog %q (read-only: %v)", opts.DbPathName, opts.ReadOnly)
	return &Catalog{
		db:       db,
		readOnly: opts.ReadOnly,
	}, nil
}

func (cat *Catalog) IsReadOnly() bool {
	return cat.readOnly
}

// Put compiles src and, if it is a valid definition, stores it under name with a new revision.
func (cat *Catalog) Put(name, src string) (Entry, error) {
	if cat.db == nil {
		return Entry{}, ErrClosed
	}
	if cat.readOnly {
		return Entry{}, ErrReadOnly
	}
	if _, err := grammar.Compile(name, src); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Name:     name,
		Source:   src,
		Revision: uuid.NewString(),
		Updated:  time.Now().UTC(),
	}
	val, err := entry.marshal()
	if err != nil {
		return Entry{}, err
	}

	err = cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(defKey(name), val)
	})
	if err != nil {
		return Entry{}, errors.Wrapf(err, "storing %q", name)
	}
	return entry, nil
}

func (cat *Catalog) Get(name string) (Entry, error) {
	var entry Entry
	if cat.db == nil {
		return entry, ErrClosed
	}
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(defKey(name))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(tagkit.ErrNotFound, "%q", name)
		}
		if err != nil {
			return err
		}
		return item.Value(entry.unmarshal)
	})
	return entry, err
}

// Load fetches and compiles the named definition.
func (cat *Catalog) Load(name string) (*grammar.Definition, error) {
	entry, err := cat.Get(name)
	if err != nil {
		return nil, err
	}
	return grammar.Compile(entry.Name, entry.Source)
}

// List returns every entry in name order.
func (cat *Catalog) List() ([]Entry, error) {
	var entries []Entry
	if cat.db == nil {
		return nil, ErrClosed
	}

	err := cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   16,
			Prefix:         gDefPrefix,
		})
		defer it.Close()

		for it.Seek(gDefPrefix); it.ValidForPrefix(gDefPrefix); it.Next() {
			var entry Entry
			err := it.Item().Value(entry.unmarshal)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

func (cat *Catalog) Delete(name string) error {
	if cat.db == nil {
		return ErrClosed
	}
	if cat.readOnly {
		return ErrReadOnly
	}
	return cat.db.Update(func(txn *badger.Txn) error {
		key := defKey(name)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return errors.Wrapf(tagkit.ErrNotFound, "%q", name)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func (cat *Catalog) Close() error {
	if cat.db == nil {
		return nil
	}
	err := cat.db.Close()
	cat.db = nil
	return err
}

func defKey(name string) []byte {
	key := make([]byte, 0, len(gDefPrefix)+len(name))
	key = append(key, gDefPrefix...)
	return append(key, name...)
}
