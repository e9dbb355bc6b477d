package config

import (
	"fmt"
	"strings"
)

// Driver names the registry backend.
type Driver string

var drivers = []string{"sqlite3", "postgres", "leveldb"}

// Decode implements envconfig.Decoder and rejects unknown backends
// while the environment is read.
func (d *Driver) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*d = ""
		return nil
	}
	for _, name := range drivers {
		if strings.EqualFold(value, name) {
			*d = Driver(name)
			return nil
		}
	}
	return fmt.Errorf("invalid registry driver %q, want one of %s", value, strings.Join(drivers, ", "))
}

func (d Driver) String() string { return string(d) }
