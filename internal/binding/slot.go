package binding

import (
	"errors"
	"fmt"

	"github.com/gogpu/rhi"
)

// --------------------------------------------------------------------------
// Slot layout
// --------------------------------------------------------------------------

// RegisterClass is the register file a slot lives in.
type RegisterClass uint8

const (
	ClassTexture  RegisterClass = iota // t: shader resource views
	ClassUAV                           // u: unordered access views
	ClassConstant                      // b: constant buffers
	ClassSampler                       // s: samplers
)

var registerClassNames = [...]string{
	ClassTexture:  "t",
	ClassUAV:      "u",
	ClassConstant: "b",
	ClassSampler:  "s",
}

// String returns the register prefix of the class.
func (c RegisterClass) String() string {
	if int(c) < len(registerClassNames) {
		return registerClassNames[c]
	}
	return "?"
}

// ClassOf returns the register class of a range type.
func ClassOf(t rhi.DescriptorRangeType) RegisterClass {
	switch t {
	case rhi.RangeUAV:
		return ClassUAV
	case rhi.RangeCBV:
		return ClassConstant
	case rhi.RangeSampler:
		return ClassSampler
	default:
		return ClassTexture
	}
}

// StageMask is a set of shader stages, one bit per rhi.ShaderStage.
type StageMask uint8

// Has reports whether s is in the mask.
func (m StageMask) Has(s rhi.ShaderStage) bool { return m&(1<<s) != 0 }

// StagesOf returns the stages a visibility covers.
func StagesOf(v rhi.ShaderVisibility) StageMask {
	var m StageMask
	for s := rhi.ShaderStage(0); s < rhi.NumStages; s++ {
		if v.Includes(s) {
			m |= 1 << s
		}
	}
	return m
}

// SlotBinding is one range flattened to fixed numeric slots.
type SlotBinding struct {
	Parameter uint32
	Range     uint32
	Class     RegisterClass
	Space     uint32
	Slot      uint32
	Count     uint32
	Stages    StageMask
}

// SlotKey identifies a slot bind point.
type SlotKey struct {
	Class  RegisterClass
	Space  uint32
	Slot   uint32
	Stages StageMask
}

// Key returns the register class, space, first slot and stages of b.
func (b SlotBinding) Key() SlotKey {
	return SlotKey{Class: b.Class, Space: b.Space, Slot: b.Slot, Stages: b.Stages}
}

// String formats b as a register reference such as "t0 (space0)".
func (b SlotBinding) String() string {
	return fmt.Sprintf("%v%d (space%d)", b.Class, b.Slot, b.Space)
}

// SlotLayout flattens desc to per-stage slots. Table grouping is discarded;
// each range binds at its base register for every stage its parameter is
// visible to.
func SlotLayout(desc *rhi.RootSignatureDesc) []SlotBinding {
	var out []SlotBinding
	for pi, p := range desc.Parameters {
		stages := StagesOf(p.Visibility)
		switch p.Type {
		case rhi.ParameterDescriptorTable:
			for ri, r := range p.Ranges {
				out = append(out, SlotBinding{
					Parameter: uint32(pi),
					Range:     uint32(ri),
					Class:     ClassOf(r.Type),
					Space:     r.RegisterSpace,
					Slot:      r.BaseRegister,
					Count:     r.Count,
					Stages:    stages,
				})
			}
		case rhi.ParameterCBV, rhi.ParameterSRV, rhi.ParameterUAV:
			out = append(out, SlotBinding{
				Parameter: uint32(pi),
				Class:     ClassOf(rootRangeType(p.Type)),
				Space:     p.Descriptor.RegisterSpace,
				Slot:      p.Descriptor.ShaderRegister,
				Count:     1,
				Stages:    stages,
			})
		}
	}
	return out
}

// SlotConflicts reports every pair of bindings that claim an overlapping
// slot range of the same class and space in a common stage.
func SlotConflicts(layout []SlotBinding) error {
	var errs []error
	for i := range layout {
		for j := i + 1; j < len(layout); j++ {
			a, b := layout[i], layout[j]
			if a.Class != b.Class || a.Space != b.Space || a.Stages&b.Stages == 0 {
				continue
			}
			if a.Slot < b.Slot+b.Count && b.Slot < a.Slot+a.Count {
				errs = append(errs, fmt.Errorf("binding: parameter %d range %d and parameter %d range %d both claim %v",
					a.Parameter, a.Range, b.Parameter, b.Range, b))
			}
		}
	}
	return errors.Join(errs...)
}

// ParameterSlots returns the slot bindings of one root parameter.
func ParameterSlots(layout []SlotBinding, parameter uint32) []SlotBinding {
	var out []SlotBinding
	for _, b := range layout {
		if b.Parameter == parameter {
			out = append(out, b)
		}
	}
	return out
}
