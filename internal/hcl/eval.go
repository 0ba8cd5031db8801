package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/record"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// wellType is the cty type of a well reference inside step attributes.
var wellType = func() cty.Type {
	ty, err := record.Type(labware.Record{})
	if err != nil {
		panic(err)
	}
	return ty
}()

// wellValue converts w into its step attribute value.
func wellValue(w labware.Well) (cty.Value, error) {
	return gocty.ToCtyValue(w.Record(), wellType)
}

// labwareValue exposes the wells of l as the attributes of an object.
func labwareValue(l *labware.Labware) (cty.Value, error) {
	wells := l.Wells()
	if len(wells) == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, len(wells))
	for _, w := range wells {
		v, err := wellValue(w)
		if err != nil {
			return cty.NilVal, err
		}
		attrs[w.Location] = v
	}
	return cty.ObjectVal(attrs), nil
}

// wellFunc implements well(type, slot, location).
var wellFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "type", Type: cty.String},
		{Name: "slot", Type: cty.Number},
		{Name: "location", Type: cty.String},
	},
	Type: function.StaticReturnType(wellType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var rec labware.Record
		rec.WellPlateType = args[0].AsString()
		if err := gocty.FromCtyValue(args[1], &rec.Slot); err != nil {
			return cty.NilVal, function.NewArgErrorf(1, "slot must be a whole number: %s", err)
		}
		rec.LocationString = args[2].AsString()

		w, err := rec.Resolve()
		if err != nil {
			return cty.NilVal, err
		}
		return wellValue(w)
	},
})

// newEvalContext puts every labware label and the well function in scope.
func newEvalContext(labels map[string]*labware.Labware) (*hcl.EvalContext, error) {
	vars := make(map[string]cty.Value, len(labels))
	for label, l := range labels {
		v, err := labwareValue(l)
		if err != nil {
			return nil, fmt.Errorf("labware %q: %w", label, err)
		}
		vars[label] = v
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: map[string]function.Function{
			"well": wellFunc,
		},
	}, nil
}
