package profile

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Options is the read-only option set of one job kind, as decoded from the
// workflow configuration.
type Options struct {
	kind   string
	values map[string]cty.Value
}

// NewOptions wraps values for the named kind. The map is not copied and must
// not be modified afterwards.
func NewOptions(kind string, values map[string]cty.Value) Options {
	if values == nil {
		values = map[string]cty.Value{}
	}
	return Options{kind: kind, values: values}
}

// Kind returns the job kind these options belong to.
func (o Options) Kind() string {
	return o.kind
}

// Has reports whether name is set to a non-null value.
func (o Options) Has(name string) bool {
	v, ok := o.values[name]
	return ok && !v.IsNull()
}

func (o Options) missing(name string) error {
	return &MissingOptionError{Kind: o.kind, Option: name}
}

func (o Options) invalid(name string, err error) error {
	return &InvalidOptionError{Kind: o.kind, Option: name, Err: err}
}

// Int returns a required integer option.
func (o Options) Int(name string) (int64, error) {
	if !o.Has(name) {
		return 0, o.missing(name)
	}
	v, err := convert.Convert(o.values[name], cty.Number)
	if err != nil {
		return 0, o.invalid(name, err)
	}
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		return 0, o.invalid(name, fmt.Errorf("%s is not a whole number", bf.Text('g', -1)))
	}
	i, acc := bf.Int64()
	if acc != big.Exact {
		return 0, o.invalid(name, fmt.Errorf("%s overflows int64", bf.Text('g', -1)))
	}
	return i, nil
}

// IntOr returns an integer option, or def when it is not set.
func (o Options) IntOr(name string, def int64) (int64, error) {
	if !o.Has(name) {
		return def, nil
	}
	return o.Int(name)
}

// BoolOr returns a boolean option, or def when it is not set.
func (o Options) BoolOr(name string, def bool) (bool, error) {
	if !o.Has(name) {
		return def, nil
	}
	var b bool
	v, err := convert.Convert(o.values[name], cty.Bool)
	if err == nil {
		err = gocty.FromCtyValue(v, &b)
	}
	if err != nil {
		return false, o.invalid(name, err)
	}
	return b, nil
}

// Objects returns a list-of-objects option as nested Options, one per
// element, each sharing this kind's name for error reporting.
func (o Options) Objects(name string) ([]Options, error) {
	if !o.Has(name) {
		return nil, o.missing(name)
	}
	v := o.values[name]
	ty := v.Type()
	if !(ty.IsListType() || ty.IsTupleType() || ty.IsSetType()) {
		return nil, o.invalid(name, fmt.Errorf("expected a list of objects, got %s", ty.FriendlyName()))
	}

	var out []Options
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		ety := elem.Type()
		if !(ety.IsObjectType() || ety.IsMapType()) {
			return nil, o.invalid(name, fmt.Errorf("element is %s, expected an object", ety.FriendlyName()))
		}
		values := make(map[string]cty.Value)
		for ait := elem.ElementIterator(); ait.Next(); {
			k, av := ait.Element()
			values[k.AsString()] = av
		}
		out = append(out, NewOptions(o.kind, values))
	}
	return out, nil
}
