package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/labprotocol/internal/labware"
	"github.com/specialistvlad/labprotocol/internal/protocol"
	"github.com/specialistvlad/labprotocol/internal/step"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Write renders p as an HCL source that Load reads back into an equal
// protocol. Labware is labelled with its program name and wells of declared
// labware are written as traversals such as `the_96_well_plate_in_1.A1`.
func Write(p *protocol.Protocol) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()

	meta := body.AppendNewBlock("protocol", nil).Body()
	meta.SetAttributeValue("name", cty.StringVal(p.Name))
	meta.SetAttributeValue("author", cty.StringVal(p.Author))
	meta.SetAttributeValue("description", cty.StringVal(p.Description))

	labels := make(map[labware.Ref]string, len(p.Labware))
	for _, l := range p.Labware {
		label := l.Name()
		labels[l.Ref()] = label

		body.AppendNewline()
		lb := body.AppendNewBlock("labware", []string{label}).Body()
		lb.SetAttributeValue("type", cty.StringVal(string(l.Type())))
		lb.SetAttributeValue("slot", cty.NumberIntVal(int64(l.Slot())))
	}

	for i, s := range p.Executable() {
		val, err := step.Value(s)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.Kind(), err)
		}

		body.AppendNewline()
		sb := body.AppendNewBlock("step", []string{string(s.Kind())}).Body()
		if err := writeAttributes(sb, val, labels); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.Kind(), err)
		}
	}

	return f.Bytes(), nil
}

func writeAttributes(body *hclwrite.Body, obj cty.Value, labels map[labware.Ref]string) error {
	attrs := obj.AsValueMap()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := attrs[name]
		if !v.Type().Equals(wellType) {
			body.SetAttributeValue(name, v)
			continue
		}

		var rec labware.Record
		if err := gocty.FromCtyValue(v, &rec); err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		ref := labware.Ref{Type: labware.Type(rec.WellPlateType), Slot: rec.Slot}
		if label, ok := labels[ref]; ok {
			body.SetAttributeTraversal(name, hcl.Traversal{
				hcl.TraverseRoot{Name: label},
				hcl.TraverseAttr{Name: rec.LocationString},
			})
			continue
		}
		body.SetAttributeRaw(name, hclwrite.TokensForFunctionCall("well",
			hclwrite.TokensForValue(cty.StringVal(rec.WellPlateType)),
			hclwrite.TokensForValue(cty.NumberIntVal(int64(rec.Slot))),
			hclwrite.TokensForValue(cty.StringVal(rec.LocationString)),
		))
	}
	return nil
}
