package codec

import (
	"fmt"

	"github.com/wippyai/protowire/errors"
	"github.com/wippyai/protowire/schema"
)

// Codec encodes and decodes records against the shapes of one registry.
type Codec struct {
	registry *schema.Registry
}

// New creates a Codec bound to a registry.
func New(registry *schema.Registry) *Codec {
	return &Codec{registry: registry}
}

// Validate checks that every required field of the message's shape is
// populated, descending into populated submessages exactly as Marshal
// does. A record that passes Validate will not fail Marshal with a
// missing required field; it is exposed so callers can probe an
// instance before committing to serialization.
func (c *Codec) Validate(msg Message) error {
	typ, ok := c.registry.Lookup(msg.Shape())
	if !ok {
		return errors.NotRegistered(errors.PhaseValidate, msg.Shape())
	}
	return c.validateMessage(typ, msg, nil)
}

func (c *Codec) validateMessage(typ *schema.Type, msg Message, path []string) error {
	if err := validateRequired(typ, msg, errors.PhaseValidate, path); err != nil {
		return err
	}

	// Unpopulated submessage fields are never encoded, so only populated
	// ones can surface a nested violation during Marshal.
	pres := msg.Presence()
	for _, f := range typ.FieldsByNumber() {
		if f.Kind != schema.KindMessage || !pres.Has(f.Name) {
			continue
		}
		ntyp, ok := c.registry.Lookup(f.MessageType)
		if !ok {
			return errors.NotRegistered(errors.PhaseValidate, f.MessageType)
		}
		v, _ := msg.Get(f.Name)
		fieldPath := appendPath(path, f.Name)

		if f.Repeated {
			elems, ok := elementsOf(v)
			if !ok {
				continue
			}
			for i, e := range elems {
				nested, ok := e.(Message)
				if !ok {
					continue
				}
				if err := c.validateMessage(ntyp, nested, appendPath(fieldPath, fmt.Sprintf("[%d]", i))); err != nil {
					return err
				}
			}
			continue
		}

		nested, ok := v.(Message)
		if !ok {
			continue
		}
		if err := c.validateMessage(ntyp, nested, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func validateRequired(typ *schema.Type, msg Message, phase errors.Phase, path []string) error {
	pres := msg.Presence()
	for _, f := range typ.Required() {
		if !pres.Has(f.Name) {
			return errors.MissingRequired(phase, typ.Name(), path, f.Name)
		}
	}
	return nil
}

// appendPath extends a field path without aliasing the parent's backing
// array across recursion.
func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}
