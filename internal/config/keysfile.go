package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// BootstrapKey is one entry of a keys.toml bootstrap file: a pre-issued raw
// key and the scope it should carry, for deployments that want to seed more
// than the single keyadder_key flag allows (e.g. a fixed admin key alongside
// a fixed keyadder key, provisioned out of band by whoever runs the
// deployment rather than minted through POST /auth).
type BootstrapKey struct {
	Raw   string `toml:"key"`
	Scope string `toml:"scope"`
}

// LoadKeysFile reads a TOML file of [[key]] bootstrap entries, mirroring the
// teacher's own settings files which use TOML alongside viper-managed YAML
// for simple, hand-editable configuration.
func LoadKeysFile(path string) ([]BootstrapKey, error) {
	var doc struct {
		Key []BootstrapKey `toml:"key"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("config: load keys file %q: %w", path, err)
	}
	return doc.Key, nil
}
