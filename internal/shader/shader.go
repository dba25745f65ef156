// Package shader reflects and compiles WGSL shaders through naga.
//
// Reflection is what name-based and slot-based backends use in place of a
// native program linker: it reports the entry points a module declares and
// every resource global with its group, binding and kind.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/rhi"
)

// Errors returned by Reflect and Compile.
var (
	// ErrParse is returned when WGSL source fails to tokenize, parse or lower.
	ErrParse = errors.New("shader: parse failed")

	// ErrValidation is returned when the lowered module fails validation.
	ErrValidation = errors.New("shader: validation failed")

	// ErrEntryPointNotFound is returned when a module lacks the requested
	// entry point for a stage.
	ErrEntryPointNotFound = errors.New("shader: entry point not found")
)

// EntryPoint is one entry point of a module.
type EntryPoint struct {
	Name  string
	Stage rhi.ShaderStage
}

// Global is one resource global of a module.
type Global struct {
	Name    string
	Group   uint32
	Binding uint32
	Kind    rhi.BindingKind
	// Count is the binding array size, or 1 for a single resource.
	Count uint32
	// Arrayed and Depth describe texture globals.
	Arrayed bool
	Depth   bool
}

// Reflection is the result of reflecting a WGSL module.
type Reflection struct {
	EntryPoints []EntryPoint
	// Globals are the bound resource globals in declaration order.
	Globals []Global
}

// Reflect parses, lowers and validates src and returns its interface.
func Reflect(src string) (*Reflection, error) {
	m, err := lower(src)
	if err != nil {
		return nil, err
	}
	r := &Reflection{}
	for _, ep := range m.EntryPoints {
		stage, ok := convertStage(ep.Stage)
		if !ok {
			continue
		}
		r.EntryPoints = append(r.EntryPoints, EntryPoint{Name: ep.Name, Stage: stage})
	}
	for _, g := range m.GlobalVariables {
		if g.Binding == nil {
			continue
		}
		gl, ok := classify(m, g)
		if !ok {
			continue
		}
		gl.Name, gl.Group, gl.Binding = g.Name, g.Binding.Group, g.Binding.Binding
		r.Globals = append(r.Globals, gl)
	}
	return r, nil
}

// lower runs the front half of the naga pipeline.
func lower(src string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	m, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	verrs, err := naga.Validate(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if len(verrs) > 0 {
		errs := make([]error, 0, len(verrs)+1)
		errs = append(errs, ErrValidation)
		for _, e := range verrs {
			errs = append(errs, e)
		}
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// EntryPoint returns the entry point for stage. An empty name selects the
// first entry point of that stage.
func (r *Reflection) EntryPoint(stage rhi.ShaderStage, name string) (EntryPoint, error) {
	for _, ep := range r.EntryPoints {
		if ep.Stage == stage && (name == "" || ep.Name == name) {
			return ep, nil
		}
	}
	if name == "" {
		return EntryPoint{}, fmt.Errorf("%w: no %v entry point", ErrEntryPointNotFound, stage)
	}
	return EntryPoint{}, fmt.Errorf("%w: %v entry point %q", ErrEntryPointNotFound, stage, name)
}

// Bindings converts the globals to program bindings.
func (r *Reflection) Bindings() []rhi.ShaderBinding {
	if len(r.Globals) == 0 {
		return nil
	}
	out := make([]rhi.ShaderBinding, len(r.Globals))
	for i, g := range r.Globals {
		out[i] = rhi.ShaderBinding{Name: g.Name, Group: g.Group, Binding: g.Binding, Kind: g.Kind}
	}
	return out
}

// Global returns the global declared under name.
func (r *Reflection) Global(name string) (Global, bool) {
	for _, g := range r.Globals {
		if g.Name == name {
			return g, true
		}
	}
	return Global{}, false
}

// MergeBindings combines the bindings of several stages. A global declared by
// more than one stage appears once, at its first position.
func MergeBindings(stages ...[]rhi.ShaderBinding) []rhi.ShaderBinding {
	var out []rhi.ShaderBinding
	for _, bindings := range stages {
		for _, b := range bindings {
			if _, dup := rhi.FindBindingByLocation(out, b.Group, b.Binding); dup {
				continue
			}
			out = append(out, b)
		}
	}
	return out
}

// classify derives the kind and shape of a global from its address space
// and type. It reports false for globals that are not shader resources.
func classify(m *ir.Module, g ir.GlobalVariable) (Global, bool) {
	out := Global{Count: 1}
	inner := typeInner(m, g.Type)
	if arr, ok := inner.(ir.BindingArrayType); ok {
		if arr.Size != nil {
			out.Count = *arr.Size
		}
		inner = typeInner(m, arr.Base)
	}

	switch g.Space {
	case ir.SpaceUniform:
		out.Kind = rhi.BindingUniformBuffer
		return out, true
	case ir.SpaceStorage:
		out.Kind = rhi.BindingStorageBuffer
		return out, true
	case ir.SpaceHandle:
		switch t := inner.(type) {
		case ir.SamplerType:
			out.Kind = rhi.BindingSampler
			if t.Comparison {
				out.Kind = rhi.BindingComparisonSampler
			}
			return out, true
		case ir.ImageType:
			out.Kind = rhi.BindingTexture
			if t.Class == ir.ImageClassStorage {
				out.Kind = rhi.BindingStorageTexture
			}
			out.Arrayed = t.Arrayed
			out.Depth = t.Class == ir.ImageClassDepth
			return out, true
		}
	}
	return Global{}, false
}

func typeInner(m *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(m.Types) {
		return nil
	}
	return m.Types[h].Inner
}

// convertStage maps a naga stage to a graphics stage. Task, mesh and compute
// stages have no graphics equivalent.
func convertStage(s ir.ShaderStage) (rhi.ShaderStage, bool) {
	switch s {
	case ir.StageVertex:
		return rhi.StageVertex, true
	case ir.StageFragment:
		return rhi.StageFragment, true
	default:
		return 0, false
	}
}
