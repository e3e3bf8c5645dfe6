package schema

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/protowire/wire"
)

// TOML layout for hand-written metadata tables:
//
//	[types.Person]
//	required = ["id"]
//
//	[types.Person.numbers]
//	id    = 1
//	email = 3
//
//	[types.Person.defaults]
//	country = "US"
type fileOptions struct {
	Types map[string]fileTypeOptions `toml:"types"`
}

type fileTypeOptions struct {
	Numbers  map[string]int64 `toml:"numbers"`
	Defaults map[string]any   `toml:"defaults"`
	Required []string         `toml:"required"`
}

// LoadOptions parses hand-written per-shape metadata overrides from TOML.
// Defaults keep the types the TOML decoder produces (int64, float64,
// string, bool); Register narrows them to the declared field kind.
func LoadOptions(data []byte) (map[string]Options, error) {
	var raw fileOptions
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load metadata options: %w", err)
	}
	return convertOptions(raw)
}

// LoadOptionsFile reads and parses a TOML metadata file.
func LoadOptionsFile(path string) (map[string]Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load metadata options: %w", err)
	}
	return LoadOptions(data)
}

func convertOptions(raw fileOptions) (map[string]Options, error) {
	out := make(map[string]Options, len(raw.Types))
	for typeName, t := range raw.Types {
		o := Options{Required: t.Required}
		if len(t.Numbers) > 0 {
			o.Numbers = make(map[string]wire.FieldNumber, len(t.Numbers))
			for field, n := range t.Numbers {
				if n < int64(wire.MinFieldNumber) || n > int64(wire.MaxFieldNumber) {
					return nil, fmt.Errorf(
						"load metadata options: %s.%s: field number %d out of range",
						typeName, field, n)
				}
				o.Numbers[field] = wire.FieldNumber(n)
			}
		}
		if len(t.Defaults) > 0 {
			o.Defaults = make(map[string]any, len(t.Defaults))
			for field, v := range t.Defaults {
				o.Defaults[field] = v
			}
		}
		out[typeName] = o
	}
	return out, nil
}
