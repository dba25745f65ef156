package binding

import "github.com/gogpu/rhi"

// --------------------------------------------------------------------------
// Name layout
// --------------------------------------------------------------------------

// UnitKind is the kind of unit a named binding is assigned to.
type UnitKind uint8

const (
	UnitTexture      UnitKind = iota // texture image unit
	UnitUniformBlock                 // uniform block binding
	UnitImage                        // image unit
	UnitSampler                      // sampler object, bound to coupled texture units
)

var unitKindNames = [...]string{
	UnitTexture:      "Texture",
	UnitUniformBlock: "UniformBlock",
	UnitImage:        "Image",
	UnitSampler:      "Sampler",
}

// String returns the unit kind name.
func (k UnitKind) String() string {
	if int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return "Unknown"
}

// UnitOf returns the unit kind of a range type.
func UnitOf(t rhi.DescriptorRangeType) UnitKind {
	switch t {
	case rhi.RangeCBV:
		return UnitUniformBlock
	case rhi.RangeUAV:
		return UnitImage
	case rhi.RangeSampler:
		return UnitSampler
	default:
		return UnitTexture
	}
}

// NamedBinding is one range resolved by name when a program is linked.
type NamedBinding struct {
	Parameter uint32
	Range     uint32
	// Name is the range's fallback name. It may be empty for samplers, which
	// bind through the texture units they are coupled to.
	Name  string
	Kind  UnitKind
	Unit  uint32
	Count uint32
	// PairedSampler is the sampler parameter of a texture range, or
	// rhi.NoPairedSampler.
	PairedSampler uint32
	// CoupledUnits are the texture units a sampler range serves.
	CoupledUnits []uint32
}

// NameKey identifies a named bind point.
type NameKey struct {
	Kind UnitKind
	Unit uint32
}

// Key returns the unit kind and first unit of b.
func (b NamedBinding) Key() NameKey { return NameKey{Kind: b.Kind, Unit: b.Unit} }

// NameLayout assigns units to every descriptor table range of desc. Units
// are allocated per kind in declared order. Each sampler range records the
// texture units of the texture ranges paired with its parameter. Root
// descriptors and constants have no name and are not bind points.
func NameLayout(desc *rhi.RootSignatureDesc) []NamedBinding {
	var (
		out  []NamedBinding
		next [len(unitKindNames)]uint32
	)
	for pi, p := range desc.Parameters {
		if p.Type != rhi.ParameterDescriptorTable {
			continue
		}
		for ri, r := range p.Ranges {
			kind := UnitOf(r.Type)
			b := NamedBinding{
				Parameter:     uint32(pi),
				Range:         uint32(ri),
				Name:          r.FallbackName,
				Kind:          kind,
				Unit:          next[kind],
				Count:         r.Count,
				PairedSampler: rhi.NoPairedSampler,
			}
			if idx, ok := desc.PairedSampler(r); ok {
				b.PairedSampler = idx
			}
			next[kind] += max(r.Count, 1)
			out = append(out, b)
		}
	}

	for i := range out {
		if out[i].Kind != UnitSampler {
			continue
		}
		for _, t := range out {
			if t.Kind == UnitTexture && t.PairedSampler == out[i].Parameter {
				for u := range t.Count {
					out[i].CoupledUnits = append(out[i].CoupledUnits, t.Unit+u)
				}
			}
		}
	}
	return out
}

// ParameterNames returns the named bindings of one root parameter.
func ParameterNames(layout []NamedBinding, parameter uint32) []NamedBinding {
	var out []NamedBinding
	for _, b := range layout {
		if b.Parameter == parameter {
			out = append(out, b)
		}
	}
	return out
}
