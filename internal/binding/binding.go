// Package binding translates root signatures into the bind points of the
// three native binding models.
//
// Each translator is a pure function of a root signature description. For a
// signature with N descriptor ranges it returns N bind points in declared
// order, and no two of them share a Key.
package binding

import "github.com/gogpu/rhi"

// --------------------------------------------------------------------------
// Table layout
// --------------------------------------------------------------------------

// TableBinding is one range realized as contiguous slots of a descriptor set.
type TableBinding struct {
	Parameter  uint32
	Range      uint32
	Binding    uint32
	Count      uint32
	Type       rhi.DescriptorRangeType
	Visibility rhi.ShaderVisibility
	// Root marks a root descriptor parameter, which has no range.
	Root bool
}

// TableKey identifies a table bind point.
type TableKey struct {
	Group, Binding uint32
}

// Key returns the descriptor set and binding of b.
func (b TableBinding) Key() TableKey { return TableKey{Group: b.Parameter, Binding: b.Binding} }

// TableLayout realizes desc as one descriptor set per root parameter. Ranges
// take consecutive bindings in declared order unless OffsetInTable pins them.
// Root descriptors occupy binding zero of their own set; constants are not
// bind points.
func TableLayout(desc *rhi.RootSignatureDesc) []TableBinding {
	var out []TableBinding
	for pi, p := range desc.Parameters {
		switch p.Type {
		case rhi.ParameterDescriptorTable:
			var offset uint32
			for ri, r := range p.Ranges {
				if r.OffsetInTable != rhi.OffsetAppend {
					offset = r.OffsetInTable
				}
				out = append(out, TableBinding{
					Parameter:  uint32(pi),
					Range:      uint32(ri),
					Binding:    offset,
					Count:      r.Count,
					Type:       r.Type,
					Visibility: p.Visibility,
				})
				offset += r.Count
			}
		case rhi.ParameterCBV, rhi.ParameterSRV, rhi.ParameterUAV:
			out = append(out, TableBinding{
				Parameter:  uint32(pi),
				Count:      1,
				Type:       rootRangeType(p.Type),
				Visibility: p.Visibility,
				Root:       true,
			})
		}
	}
	return out
}

// rootRangeType returns the range type a root descriptor parameter binds.
func rootRangeType(t rhi.RootParameterType) rhi.DescriptorRangeType {
	switch t {
	case rhi.ParameterSRV:
		return rhi.RangeSRV
	case rhi.ParameterUAV:
		return rhi.RangeUAV
	default:
		return rhi.RangeCBV
	}
}

// ParameterBindings returns the bind points of one root parameter.
func ParameterBindings(layout []TableBinding, parameter uint32) []TableBinding {
	var out []TableBinding
	for _, b := range layout {
		if b.Parameter == parameter {
			out = append(out, b)
		}
	}
	return out
}
