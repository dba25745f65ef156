package rhi

import (
	"errors"
	"fmt"
)

// DescriptorRangeType is the kind of resource a descriptor range holds.
// Values match the table-based native enumeration (zero-based).
type DescriptorRangeType uint8

const (
	RangeSRV     DescriptorRangeType = iota // Shader resource view (texture, texture buffer)
	RangeUAV                                // Unordered access view
	RangeCBV                                // Constant buffer view
	RangeSampler                            // Sampler
)

var descriptorRangeTypeNames = [...]string{
	RangeSRV:     "SRV",
	RangeUAV:     "UAV",
	RangeCBV:     "CBV",
	RangeSampler: "Sampler",
}

// String returns the range type name.
func (t DescriptorRangeType) String() string {
	if int(t) < len(descriptorRangeTypeNames) {
		return descriptorRangeTypeNames[t]
	}
	return "Unknown"
}

const (
	// OffsetAppend places a range directly after the previous one.
	OffsetAppend = ^uint32(0)

	// NoPairedSampler marks a range without a paired sampler parameter.
	NoPairedSampler = ^uint32(0)

	// MaxFallbackNameLength is the longest fallback name, in bytes.
	// It leaves room for the terminator of the native 32-byte field.
	MaxFallbackNameLength = 31
)

// DescriptorRange is a contiguous group of same-kind descriptors.
//
// FallbackName and PairedSamplerParameterIndex exist only for backends that
// have no register or table concept: name-based backends resolve the range by
// FallbackName when a program is linked, and bind the sampler supplied by the
// paired root parameter together with the texture.
type DescriptorRange struct {
	Type          DescriptorRangeType
	Count         uint32
	BaseRegister  uint32
	RegisterSpace uint32
	OffsetInTable uint32

	FallbackName                string
	PairedSamplerParameterIndex uint32
}

// ShaderVisibility selects the stages a root parameter is visible to.
// Values match the table-based native enumeration (zero-based).
type ShaderVisibility uint8

const (
	VisibilityAll ShaderVisibility = iota
	VisibilityVertex
	VisibilityTessellationControl
	VisibilityTessellationEvaluation
	VisibilityGeometry
	VisibilityFragment
)

var shaderVisibilityNames = [...]string{
	VisibilityAll:                    "All",
	VisibilityVertex:                 "Vertex",
	VisibilityTessellationControl:    "TessellationControl",
	VisibilityTessellationEvaluation: "TessellationEvaluation",
	VisibilityGeometry:               "Geometry",
	VisibilityFragment:               "Fragment",
}

// String returns the visibility name.
func (v ShaderVisibility) String() string {
	if int(v) < len(shaderVisibilityNames) {
		return shaderVisibilityNames[v]
	}
	return "Unknown"
}

// Includes reports whether stage s can see a parameter with this visibility.
func (v ShaderVisibility) Includes(s ShaderStage) bool {
	if v == VisibilityAll {
		return s < NumStages
	}
	return v > VisibilityAll && v <= VisibilityFragment && ShaderStage(v-1) == s
}

// RootParameterType is the tag of the RootParameter variant.
type RootParameterType uint8

const (
	ParameterDescriptorTable RootParameterType = iota
	ParameterConstants
	ParameterCBV
	ParameterSRV
	ParameterUAV
)

var rootParameterTypeNames = [...]string{
	ParameterDescriptorTable: "DescriptorTable",
	ParameterConstants:       "Constants",
	ParameterCBV:             "CBV",
	ParameterSRV:             "SRV",
	ParameterUAV:             "UAV",
}

// String returns the parameter type name.
func (t RootParameterType) String() string {
	if int(t) < len(rootParameterTypeNames) {
		return rootParameterTypeNames[t]
	}
	return "Unknown"
}

// RootConstants are 32-bit values inlined into the root signature.
type RootConstants struct {
	ShaderRegister uint32
	RegisterSpace  uint32
	Num32BitValues uint32
}

// RootDescriptor is a CBV, SRV or UAV bound directly in the root signature.
type RootDescriptor struct {
	ShaderRegister uint32
	RegisterSpace  uint32
}

// RootParameter is one entry of a root signature. Type selects which of
// Ranges, Constants or Descriptor is meaningful.
type RootParameter struct {
	Type       RootParameterType
	Ranges     []DescriptorRange
	Constants  RootConstants
	Descriptor RootDescriptor
	Visibility ShaderVisibility
}

// DescriptorTable builds a descriptor table parameter.
func DescriptorTable(visibility ShaderVisibility, ranges ...DescriptorRange) RootParameter {
	return RootParameter{Type: ParameterDescriptorTable, Ranges: ranges, Visibility: visibility}
}

// Constants32Bit builds an inline constants parameter.
func Constants32Bit(visibility ShaderVisibility, register, space, count uint32) RootParameter {
	return RootParameter{
		Type:       ParameterConstants,
		Constants:  RootConstants{ShaderRegister: register, RegisterSpace: space, Num32BitValues: count},
		Visibility: visibility,
	}
}

// RootDescriptorParameter builds a direct CBV, SRV or UAV parameter.
func RootDescriptorParameter(t RootParameterType, visibility ShaderVisibility, register, space uint32) RootParameter {
	return RootParameter{
		Type:       t,
		Descriptor: RootDescriptor{ShaderRegister: register, RegisterSpace: space},
		Visibility: visibility,
	}
}

// StaticSampler is a sampler baked into the root signature.
type StaticSampler struct {
	Sampler        SamplerStateDesc
	ShaderRegister uint32
	RegisterSpace  uint32
	Visibility     ShaderVisibility
}

// RootSignatureFlags are optional root signature behaviors.
type RootSignatureFlags uint32

const (
	RootSignatureFlagNone                           RootSignatureFlags = 0
	RootSignatureFlagAllowInputAssemblerInputLayout RootSignatureFlags = 1 << 0
	RootSignatureFlagDenyVertexShaderRootAccess     RootSignatureFlags = 1 << 1
	RootSignatureFlagDenyFragmentShaderRootAccess   RootSignatureFlags = 1 << 5
)

// RootSignatureDesc describes how shader-visible resources are grouped and
// bound. The layout mirrors the table-based native structures one to one.
type RootSignatureDesc struct {
	Parameters     []RootParameter
	StaticSamplers []StaticSampler
	Flags          RootSignatureFlags
}

// RootSignature is an immutable, device-realized root signature.
type RootSignature interface {
	Resource
	// Desc returns the description the signature was created from.
	// Callers must not modify it.
	Desc() *RootSignatureDesc
}

// Clone returns a deep copy of d.
func (d *RootSignatureDesc) Clone() *RootSignatureDesc {
	c := &RootSignatureDesc{Flags: d.Flags}
	if d.Parameters != nil {
		c.Parameters = make([]RootParameter, len(d.Parameters))
		for i, p := range d.Parameters {
			c.Parameters[i] = p
			if p.Ranges != nil {
				c.Parameters[i].Ranges = append([]DescriptorRange(nil), p.Ranges...)
			}
		}
	}
	if d.StaticSamplers != nil {
		c.StaticSamplers = append([]StaticSampler(nil), d.StaticSamplers...)
	}
	return c
}

// RangeCount returns the number of descriptor ranges across all tables.
func (d *RootSignatureDesc) RangeCount() int {
	n := 0
	for i := range d.Parameters {
		if d.Parameters[i].Type == ParameterDescriptorTable {
			n += len(d.Parameters[i].Ranges)
		}
	}
	return n
}

// Validate checks the structural rules every backend relies on. All problems
// are reported, joined, each wrapping ErrInvalidRootSignature or
// ErrInvalidDescriptorRange.
func (d *RootSignatureDesc) Validate() error {
	var errs []error
	for pi, p := range d.Parameters {
		if p.Type > ParameterUAV {
			errs = append(errs, fmt.Errorf("%w: parameter %d: unknown type %d", ErrInvalidRootSignature, pi, p.Type))
			continue
		}
		if p.Visibility > VisibilityFragment {
			errs = append(errs, fmt.Errorf("%w: parameter %d: unknown visibility %d", ErrInvalidRootSignature, pi, p.Visibility))
		}
		if p.Type != ParameterDescriptorTable {
			if len(p.Ranges) != 0 {
				errs = append(errs, fmt.Errorf("%w: parameter %d: %v parameter carries ranges", ErrInvalidRootSignature, pi, p.Type))
			}
			continue
		}
		if len(p.Ranges) == 0 {
			errs = append(errs, fmt.Errorf("%w: parameter %d: empty descriptor table", ErrInvalidRootSignature, pi))
			continue
		}
		for ri, r := range p.Ranges {
			if err := r.validate(); err != nil {
				errs = append(errs, fmt.Errorf("parameter %d range %d: %w", pi, ri, err))
			}
		}
		if p.Ranges[0].Type == RangeSampler {
			for ri, r := range p.Ranges {
				if r.Type != RangeSampler {
					errs = append(errs, fmt.Errorf("%w: parameter %d range %d: sampler tables cannot mix in %v ranges",
						ErrInvalidRootSignature, pi, ri, r.Type))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func (r DescriptorRange) validate() error {
	if r.Type > RangeSampler {
		return fmt.Errorf("%w: unknown type %d", ErrInvalidDescriptorRange, r.Type)
	}
	if r.Count == 0 {
		return fmt.Errorf("%w: zero descriptors", ErrInvalidDescriptorRange)
	}
	if len(r.FallbackName) > MaxFallbackNameLength {
		return fmt.Errorf("%w: fallback name %q longer than %d bytes", ErrInvalidDescriptorRange, r.FallbackName, MaxFallbackNameLength)
	}
	return nil
}

// CheckPortable checks that every SRV range can be realized on name-based and
// sampler-coupled backends: it needs a fallback name and a paired sampler
// parameter that exists and is a sampler descriptor table.
func (d *RootSignatureDesc) CheckPortable() error {
	var errs []error
	for pi, p := range d.Parameters {
		if p.Type != ParameterDescriptorTable {
			continue
		}
		for ri, r := range p.Ranges {
			if r.Type != RangeSRV {
				continue
			}
			if r.FallbackName == "" {
				errs = append(errs, fmt.Errorf("%w: parameter %d range %d: SRV without fallback name", ErrNotPortable, pi, ri))
			}
			if err := d.checkPairedSampler(r.PairedSamplerParameterIndex); err != nil {
				errs = append(errs, fmt.Errorf("%w: parameter %d range %d: %w", ErrNotPortable, pi, ri, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (d *RootSignatureDesc) checkPairedSampler(index uint32) error {
	if index == NoPairedSampler {
		return errors.New("no paired sampler parameter")
	}
	if int(index) >= len(d.Parameters) {
		return fmt.Errorf("paired sampler parameter %d out of range [0,%d)", index, len(d.Parameters))
	}
	p := d.Parameters[index]
	if p.Type != ParameterDescriptorTable {
		return fmt.Errorf("paired sampler parameter %d is a %v, not a descriptor table", index, p.Type)
	}
	if len(p.Ranges) == 0 || p.Ranges[0].Type != RangeSampler {
		return fmt.Errorf("paired sampler parameter %d is not a sampler table", index)
	}
	return nil
}

// PairedSampler returns the sampler parameter index paired with an SRV range,
// or false when the range has none or the pairing is invalid.
func (d *RootSignatureDesc) PairedSampler(r DescriptorRange) (uint32, bool) {
	if r.Type != RangeSRV || d.checkPairedSampler(r.PairedSamplerParameterIndex) != nil {
		return 0, false
	}
	return r.PairedSamplerParameterIndex, true
}

// ValidateForDevice applies the device's validation policy to desc. Debug
// builds assert; release builds validate only when o.Validation is set.
// It reports whether the root signature may be created.
func ValidateForDevice(desc *RootSignatureDesc, o Options, portable bool) bool {
	if desc == nil {
		return false
	}
	if !DebugBuild && !o.Validation {
		return true
	}
	err := desc.Validate()
	if err == nil && portable {
		err = desc.CheckPortable()
	}
	Assertf(err == nil, "%v", err)
	if err != nil {
		o.Log().Warn("rhi: root signature rejected", "err", err)
		return false
	}
	return true
}
