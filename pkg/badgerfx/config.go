package badgerfx

import "github.com/dgraph-io/badger/v4"

type Config struct {
	// Path to the BadgerDB data directory
	Dir string
	// InMemory keeps all data in memory; Dir is ignored
	InMemory bool
}

func (c Config) Build() badger.Options {
	if c.InMemory {
		return badger.DefaultOptions("").WithInMemory(true)
	}

	return badger.DefaultOptions(c.Dir)
}
