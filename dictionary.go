package edgelike

import (
	"github.com/pkg/errors"
)

// LookupFunc retrieves a value by key from a dictionary. The second return distinguishes an
// absent key from a key holding an empty value.
type LookupFunc func(key string) (string, bool)

// Dictionary is a read-only keyed lookup scoped by name. Its contents are supplied by the
// deployment configuration, never generated here.
type Dictionary struct {
	name string
	get  LookupFunc
}

// Get returns the value stored under key. An absent key returns ErrKeyAbsent; guests that treat
// absence as impossible (the reference contract does) check the error and fault.
func (d *Dictionary) Get(key string) (string, error) {
	value, ok := d.get(key)
	if !ok {
		return "", errors.Wrapf(ErrKeyAbsent, "dictionary %q has no key %q", d.name, key)
	}

	return value, nil
}

// Name returns the name the dictionary was opened under.
func (d *Dictionary) Name() string {
	return d.name
}

// addDictionary registers a named dictionary with the given lookup function.
func (i *Instance) addDictionary(name string, fn LookupFunc) {
	if i.dictionaries == nil {
		i.dictionaries = []*Dictionary{}
	}

	i.dictionaries = append(i.dictionaries, &Dictionary{name: name, get: fn})
}

// getDictionary retrieves a dictionary by name, or nil if none is configured under that name.
func (i *Instance) getDictionary(name string) *Dictionary {
	for _, d := range i.dictionaries {
		if d.name == name {
			return d
		}
	}

	return nil
}
