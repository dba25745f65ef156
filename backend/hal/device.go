//go:build !nogpu

// Package hal provides the "Direct3D12" and "Vulkan" backends on top of the
// wgpu hardware abstraction layer: table-based binding with one bind group
// per root parameter.
//
// Every root parameter becomes one bind group layout, and a descriptor range
// occupies consecutive bindings from its offset in the table. Shaders declare
// resources at @group(parameter) @binding(offset). Static samplers live in one
// extra group after the parameters, one binding per sampler in declared
// order. A descriptor table binds one resource to every binding of its group;
// bind groups are created on first use and cached per layout, parameter and
// resource.
//
// Destruction is deferred until the GPU has completed the last submission
// that could reference the object.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/rhi/backend/hal"
package hal

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	gpuhal "github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rhi"
	"github.com/gogpu/rhi/internal/binding"
	"github.com/gogpu/rhi/internal/native"
	"github.com/gogpu/rhi/internal/shader"
)

func init() {
	rhi.Register(rhi.BackendDirect3D12, func(opts ...rhi.Option) rhi.Device {
		return New(Config{Variant: gputypes.BackendDX12}, opts...)
	})
	rhi.Register(rhi.BackendVulkan, func(opts ...rhi.Option) rhi.Device {
		return New(Config{Variant: gputypes.BackendVulkan}, opts...)
	})
}

// Errors reported while opening a device.
var (
	ErrBackendUnavailable = errors.New("hal: backend not compiled in")
	ErrNoAdapter          = errors.New("hal: no adapter")
)

var errResourceMismatch = errors.New("hal: resource does not match binding")

// Config selects the HAL backend of a device.
type Config struct {
	// Variant is the HAL backend to open. Vulkan devices are fed SPIR-V;
	// every other variant takes WGSL.
	Variant gputypes.Backend

	// Device and Queue, when both are set, are used instead of opening an
	// adapter. The caller keeps ownership of them.
	Device gpuhal.Device
	Queue  gpuhal.Queue
}

// object holds the HAL objects behind a native handle.
type object struct {
	buffer  gpuhal.Buffer
	size    uint64
	texture gpuhal.Texture
	view    gpuhal.TextureView
	format  gputypes.TextureFormat
	usage   gputypes.TextureUsage
	sampler gpuhal.Sampler
	module  gpuhal.ShaderModule
}

// layoutKey identifies the layouts of a root signature as seen by a program.
type layoutKey struct {
	rs   *native.RootSignature
	prog *native.Program
}

// layoutSet is one bind group layout per root parameter plus the static
// sampler group, and the pipeline layout over them.
type layoutSet struct {
	id       uint64
	params   int
	entries  [][]gputypes.BindGroupLayoutEntry
	groups   []gpuhal.BindGroupLayout
	pipeline gpuhal.PipelineLayout

	samplers []gpuhal.Sampler
	static   gpuhal.BindGroup
}

// groupKey identifies the bind group of one resource bound to a parameter.
type groupKey struct {
	set       uint64
	parameter uint32
	handle    native.Handle
}

// renderKey identifies a render pipeline variant of a pipeline state.
type renderKey struct {
	pipeline uint64
	topology gputypes.PrimitiveTopology
}

// pipeline is the device side of a pipeline state.
type pipeline struct {
	id  uint64
	set *layoutSet
	// slots maps HAL vertex buffer slots to input slots.
	slots   []uint32
	scissor bool
	desc    gpuhal.RenderPipelineDescriptor
}

// retirement is a destruction waiting for a submission to complete.
type retirement struct {
	after   uint64
	destroy func()
}

// inflight is a submitted command buffer.
type inflight struct {
	index   uint64
	encoder gpuhal.CommandEncoder
	cmd     gpuhal.CommandBuffer
}

// Device is a HAL device.
type Device struct {
	opts    rhi.Options
	caps    rhi.Capabilities
	variant gputypes.Backend
	name    string
	state   rhi.DrawState

	instance gpuhal.Instance
	device   gpuhal.Device
	queue    gpuhal.Queue
	owned    bool

	nextHandle atomic.Uint32
	nextID     atomic.Uint64
	presents   atomic.Uint64

	// mu guards the maps below. Resource creation is free-threaded.
	mu        sync.RWMutex
	objects   map[native.Handle]*object
	pipelines map[*native.PipelineState]*pipeline

	layouts *cache[layoutKey, *layoutSet]
	groups  *cache[groupKey, gpuhal.BindGroup]
	renders *cache[renderKey, gpuhal.RenderPipeline]

	// submitMu guards the submission bookkeeping.
	submitMu sync.Mutex
	last     uint64
	retired  []retirement
	inflight []inflight

	exec executor
}

// New opens a device. A device whose backend fails to come up is returned
// uninitialized.
func New(cfg Config, opts ...rhi.Option) *Device {
	o := rhi.ResolveOptions(opts...)
	d := &Device{
		opts:      o,
		variant:   cfg.Variant,
		name:      backendName(cfg.Variant),
		objects:   make(map[native.Handle]*object),
		pipelines: make(map[*native.PipelineState]*pipeline),
		layouts:   newCache[layoutKey, *layoutSet](),
		groups:    newCache[groupKey, gpuhal.BindGroup](),
		renders:   newCache[renderKey, gpuhal.RenderPipeline](),
	}
	d.exec.dev = d
	d.caps = rhi.Capabilities{
		DeviceName:               d.name,
		Adapter:                  gpucontext.AdapterInfo{Name: d.name, Type: o.AdapterType},
		BindingModel:             rhi.BindingModelTable,
		ExplicitBindingLocations: true,
		InstancedArrays:          true,
		DrawInstanced:            true,
		BaseVertex:               true,
		NativeMultithreading:     true,
		UpperLeftOrigin:          true,
		ZeroToOneClipZ:           true,
	}
	d.caps.ApplyLimits(o.Limits)

	if cfg.Device != nil && cfg.Queue != nil {
		d.device, d.queue = cfg.Device, cfg.Queue
	} else if err := d.open(); err != nil {
		d.warn("device initialization failed", "err", err)
		return d
	}
	o.Log().Info("rhi: device initialized", "backend", d.name, "adapter", d.caps.Adapter.Name, "label", o.Label)
	return d
}

// open creates an instance of the configured variant and opens an adapter,
// preferring the adapter type of the options.
func (d *Device) open() error {
	backend, ok := gpuhal.GetBackend(d.variant)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, d.variant)
	}
	instance, err := backend.CreateInstance(&gpuhal.InstanceDescriptor{})
	if err != nil {
		return fmt.Errorf("hal: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	chosen := pickAdapter(adapters, d.opts.AdapterType)
	od, err := chosen.Adapter.Open(0, d.opts.Limits)
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("hal: open adapter %q: %w", chosen.Info.Name, err)
	}
	d.instance, d.device, d.queue, d.owned = instance, od.Device, od.Queue, true
	d.caps.Adapter = gpucontext.AdapterInfo{Name: chosen.Info.Name, Type: adapterType(chosen.Info.DeviceType)}
	return nil
}

// pickAdapter returns the first adapter of the preferred type, or the first
// adapter when none matches.
func pickAdapter(adapters []gpuhal.ExposedAdapter, pref gpucontext.AdapterType) gpuhal.ExposedAdapter {
	if want, ok := deviceType(pref); ok {
		for _, a := range adapters {
			if a.Info.DeviceType == want {
				return a
			}
		}
	}
	return adapters[0]
}

func backendName(v gputypes.Backend) string {
	switch v {
	case gputypes.BackendDX12:
		return rhi.BackendDirect3D12
	case gputypes.BackendVulkan:
		return rhi.BackendVulkan
	default:
		return v.String()
	}
}

func (d *Device) Name() string                    { return d.name }
func (d *Device) Initialized() bool               { return d.device != nil }
func (d *Device) Capabilities() *rhi.Capabilities { return &d.caps }

// Stats reports the layout, bind group and render pipeline caches.
func (d *Device) Stats() (layouts, groups, renders CacheStats) {
	return d.layouts.stats(), d.groups.stats(), d.renders.stats()
}

// Presents returns the number of swap chain presents.
func (d *Device) Presents() uint64 { return d.presents.Load() }

func (d *Device) warn(msg string, args ...any) {
	d.opts.Log().Warn("rhi: "+msg, append([]any{"backend", d.name}, args...)...)
}

// ready reports whether the device can create objects, warning otherwise.
func (d *Device) ready(what string) bool {
	if d.device == nil {
		d.warn(what+" on an uninitialized device")
		return false
	}
	return true
}

func (d *Device) store(obj *object) native.Handle {
	h := native.Handle(d.nextHandle.Add(1))
	d.mu.Lock()
	d.objects[h] = obj
	d.mu.Unlock()
	return h
}

func (d *Device) object(h native.Handle) *object {
	if h == 0 {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.objects[h]
}

func (d *Device) objectOf(res rhi.Resource) *object {
	return d.object(native.HandleOf(res))
}

// releaser returns the destroy callback of h. The bind groups holding h go
// with it.
func (d *Device) releaser(h native.Handle) func() {
	return func() {
		d.mu.Lock()
		obj := d.objects[h]
		delete(d.objects, h)
		d.mu.Unlock()
		groups := d.groups.evict(func(k groupKey) bool { return k.handle == h })
		d.retire(func() {
			for _, g := range groups {
				d.device.DestroyBindGroup(g)
			}
			if obj != nil {
				d.destroyObject(obj)
			}
		})
	}
}

func (d *Device) destroyObject(obj *object) {
	if obj.view != nil {
		d.device.DestroyTextureView(obj.view)
	}
	if obj.texture != nil {
		d.device.DestroyTexture(obj.texture)
	}
	if obj.buffer != nil {
		d.device.DestroyBuffer(obj.buffer)
	}
	if obj.sampler != nil {
		d.device.DestroySampler(obj.sampler)
	}
	if obj.module != nil {
		d.device.DestroyShaderModule(obj.module)
	}
}

// --------------------------------------------------------------------------
// Deferred destruction
// --------------------------------------------------------------------------

// retire runs destroy once the GPU has completed every submission made so
// far.
func (d *Device) retire(destroy func()) {
	d.submitMu.Lock()
	d.retired = append(d.retired, retirement{after: d.last, destroy: destroy})
	d.submitMu.Unlock()
	d.collect()
}

// track records a submitted command buffer.
func (d *Device) track(index uint64, enc gpuhal.CommandEncoder, cmd gpuhal.CommandBuffer) {
	d.submitMu.Lock()
	d.last = max(d.last, index)
	d.inflight = append(d.inflight, inflight{index: index, encoder: enc, cmd: cmd})
	d.submitMu.Unlock()
}

// collect frees the command buffers and runs the retirements the GPU has
// completed.
func (d *Device) collect() {
	if d.queue == nil {
		return
	}
	d.drain(d.queue.PollCompleted())
}

func (d *Device) drain(done uint64) {
	d.submitMu.Lock()
	var ready []func()
	keep := d.retired[:0]
	for _, r := range d.retired {
		if r.after <= done {
			ready = append(ready, r.destroy)
		} else {
			keep = append(keep, r)
		}
	}
	d.retired = keep
	var free []inflight
	rest := d.inflight[:0]
	for _, f := range d.inflight {
		if f.index <= done {
			free = append(free, f)
		} else {
			rest = append(rest, f)
		}
	}
	d.inflight = rest
	d.submitMu.Unlock()

	for _, f := range free {
		d.device.FreeCommandBuffer(f.cmd)
		f.encoder.Destroy()
	}
	for _, fn := range ready {
		fn()
	}
}

// --------------------------------------------------------------------------
// Root signature and layouts
// --------------------------------------------------------------------------

// CreateRootSignature rejects signatures needing more bind groups than the
// device limits allow. Layouts are created per program, on first use.
func (d *Device) CreateRootSignature(desc *rhi.RootSignatureDesc) rhi.RootSignature {
	if !d.ready("root signature") || !rhi.ValidateForDevice(desc, d.opts, false) {
		return nil
	}
	if n := groupCount(desc); n > d.opts.Limits.MaxBindGroups {
		d.warn("root signature exceeds the bind group limit", "groups", n, "max", d.opts.Limits.MaxBindGroups)
		return nil
	}
	var rs *native.RootSignature
	rs = native.NewRootSignature(desc, func() {
		d.dropLayouts(func(k layoutKey) bool { return k.rs == rs })
	})
	return rs
}

// groupCount is the number of bind groups desc occupies.
func groupCount(desc *rhi.RootSignatureDesc) uint32 {
	n := uint32(len(desc.Parameters))
	if len(desc.StaticSamplers) > 0 {
		n++
	}
	return n
}

// layoutSet returns the layouts of rs as seen by prog.
func (d *Device) layoutSet(rs *native.RootSignature, prog *native.Program) (*layoutSet, error) {
	return d.layouts.getOrCreate(layoutKey{rs: rs, prog: prog}, func() (*layoutSet, error) {
		return d.createLayoutSet(rs.Desc(), programGlobals(prog))
	})
}

func (d *Device) createLayoutSet(desc *rhi.RootSignatureDesc, globals map[shader.Location]shader.Global) (*layoutSet, error) {
	set := &layoutSet{id: d.nextID.Add(1), params: len(desc.Parameters), entries: layoutEntries(desc, globals)}
	for i, entries := range set.entries {
		l, err := d.device.CreateBindGroupLayout(&gpuhal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s group %d", d.opts.Label, i),
			Entries: entries,
		})
		if err != nil {
			d.destroyLayoutSet(set)
			return nil, fmt.Errorf("hal: bind group layout %d: %w", i, err)
		}
		set.groups = append(set.groups, l)
	}
	if len(desc.StaticSamplers) > 0 {
		if err := d.createStaticGroup(set, desc.StaticSamplers); err != nil {
			d.destroyLayoutSet(set)
			return nil, err
		}
	}
	pl, err := d.device.CreatePipelineLayout(&gpuhal.PipelineLayoutDescriptor{
		Label:            d.opts.Label,
		BindGroupLayouts: set.groups,
	})
	if err != nil {
		d.destroyLayoutSet(set)
		return nil, fmt.Errorf("hal: pipeline layout: %w", err)
	}
	set.pipeline = pl
	return set, nil
}

// createStaticGroup creates the static samplers and the bind group holding
// them, which is the last group of set.
func (d *Device) createStaticGroup(set *layoutSet, samplers []rhi.StaticSampler) error {
	entries := make([]gputypes.BindGroupEntry, 0, len(samplers))
	for i := range samplers {
		s, err := d.device.CreateSampler(samplerDescriptor(d.opts.Label, &samplers[i].Sampler))
		if err != nil {
			return fmt.Errorf("hal: static sampler %d: %w", i, err)
		}
		set.samplers = append(set.samplers, s)
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(i),
			Resource: gputypes.SamplerBinding{Sampler: s.NativeHandle()},
		})
	}
	g, err := d.device.CreateBindGroup(&gpuhal.BindGroupDescriptor{
		Label:   d.opts.Label + " static samplers",
		Layout:  set.groups[len(set.groups)-1],
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("hal: static sampler group: %w", err)
	}
	set.static = g
	return nil
}

func (d *Device) destroyLayoutSet(set *layoutSet) {
	if set.static != nil {
		d.device.DestroyBindGroup(set.static)
	}
	for _, s := range set.samplers {
		d.device.DestroySampler(s)
	}
	if set.pipeline != nil {
		d.device.DestroyPipelineLayout(set.pipeline)
	}
	for _, l := range set.groups {
		d.device.DestroyBindGroupLayout(l)
	}
}

// dropLayouts retires the layout sets whose key matches, with their bind
// groups.
func (d *Device) dropLayouts(match func(layoutKey) bool) {
	for _, set := range d.layouts.evict(match) {
		groups := d.groups.evict(func(k groupKey) bool { return k.set == set.id })
		d.retire(func() {
			for _, g := range groups {
				d.device.DestroyBindGroup(g)
			}
			d.destroyLayoutSet(set)
		})
	}
}

// layoutEntries returns the bind group layout entries of every root
// parameter, followed by the static sampler group when desc has static
// samplers. A global the program declares decides the binding kind; a range
// no shader declares takes the kind of its range type.
func layoutEntries(desc *rhi.RootSignatureDesc, globals map[shader.Location]shader.Global) [][]gputypes.BindGroupLayoutEntry {
	out := make([][]gputypes.BindGroupLayoutEntry, len(desc.Parameters), groupCount(desc))
	for _, tb := range binding.TableLayout(desc) {
		stages, _ := visibility(tb.Visibility)
		for k := range tb.Count {
			loc := shader.Location{Group: tb.Parameter, Binding: tb.Binding + k}
			kind := rangeKind(tb.Type)
			var g *shader.Global
			if gl, ok := globals[loc]; ok {
				kind, g = gl.Kind, &gl
			}
			out[tb.Parameter] = append(out[tb.Parameter], layoutEntry(loc.Binding, stages, kind, tb.Type, g))
		}
	}
	if len(desc.StaticSamplers) == 0 {
		return out
	}
	static := make([]gputypes.BindGroupLayoutEntry, len(desc.StaticSamplers))
	for i, ss := range desc.StaticSamplers {
		stages, _ := visibility(ss.Visibility)
		kind := rhi.BindingSampler
		if ss.Sampler.Compare != gputypes.CompareFunctionUndefined {
			kind = rhi.BindingComparisonSampler
		}
		static[i] = layoutEntry(uint32(i), stages, kind, rhi.RangeSampler, nil)
	}
	return append(out, static)
}

// programGlobals indexes the reflected globals of every shader of prog.
func programGlobals(prog *native.Program) map[shader.Location]shader.Global {
	out := make(map[shader.Location]shader.Global)
	if prog == nil {
		return out
	}
	for _, s := range prog.Shaders() {
		ns, ok := s.(*native.Shader)
		if !ok || ns.Reflection == nil {
			continue
		}
		for _, g := range ns.Reflection.Globals {
			out[shader.Location{Group: g.Group, Binding: g.Binding}] = g
		}
	}
	return out
}

// bindGroup returns the bind group of parameter i of set with res bound to
// every binding.
func (d *Device) bindGroup(set *layoutSet, i uint32, res rhi.Resource) (gpuhal.BindGroup, error) {
	h := native.HandleOf(res)
	return d.groups.getOrCreate(groupKey{set: set.id, parameter: i, handle: h}, func() (gpuhal.BindGroup, error) {
		obj := d.object(h)
		entries := make([]gputypes.BindGroupEntry, 0, len(set.entries[i]))
		for _, e := range set.entries[i] {
			r, err := bindingResource(e, obj)
			if err != nil {
				return nil, fmt.Errorf("group %d binding %d: %w", i, e.Binding, err)
			}
			entries = append(entries, gputypes.BindGroupEntry{Binding: e.Binding, Resource: r})
		}
		return d.device.CreateBindGroup(&gpuhal.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s group %d", d.opts.Label, i),
			Layout:  set.groups[i],
			Entries: entries,
		})
	})
}

// bindingResource returns the part of obj a layout entry takes.
func bindingResource(e gputypes.BindGroupLayoutEntry, obj *object) (gputypes.BindingResource, error) {
	switch {
	case obj == nil:
		return nil, errResourceMismatch
	case e.Buffer != nil && obj.buffer != nil:
		return gputypes.BufferBinding{Buffer: obj.buffer.NativeHandle(), Size: obj.size}, nil
	case e.Sampler != nil && obj.sampler != nil:
		return gputypes.SamplerBinding{Sampler: obj.sampler.NativeHandle()}, nil
	case (e.Texture != nil || e.StorageTexture != nil) && obj.view != nil:
		return gputypes.TextureViewBinding{TextureView: obj.view.NativeHandle()}, nil
	default:
		return nil, errResourceMismatch
	}
}

// --------------------------------------------------------------------------
// Buffers
// --------------------------------------------------------------------------

// createBuffer creates a buffer rounded up to the copy alignment, or to a
// whole uniform block for uniform buffers, and uploads data.
func (d *Device) createBuffer(kind rhi.ResourceType, size uint32, data []byte) (native.Handle, bool) {
	if !d.ready("buffer creation") {
		return 0, false
	}
	n := uint64(size+3) &^ 3
	if kind == rhi.ResourceUniformBuffer {
		n = uint64(size+15) &^ 15
	}
	buf, err := d.device.CreateBuffer(&gpuhal.BufferDescriptor{Label: d.opts.Label, Size: n, Usage: bufferUsage(kind)})
	if err != nil {
		d.warn("buffer creation failed", "kind", kind, "err", err)
		return 0, false
	}
	if len(data) > 0 {
		if err := d.queue.WriteBuffer(buf, 0, padded(data[:min(uint64(len(data)), n)])); err != nil {
			d.device.DestroyBuffer(buf)
			d.warn("buffer upload failed", "kind", kind, "err", err)
			return 0, false
		}
	}
	return d.store(&object{buffer: buf, size: n}), true
}

// padded returns data extended with zeros to a multiple of four bytes.
func padded(data []byte) []byte {
	if len(data)%4 == 0 {
		return data
	}
	out := make([]byte, (len(data)+3)&^3)
	copy(out, data)
	return out
}

func (d *Device) CreateVertexBuffer(size uint32, data []byte, usage rhi.BufferUsage) rhi.VertexBuffer {
	h, ok := d.createBuffer(rhi.ResourceVertexBuffer, size, data)
	if !ok {
		return nil
	}
	return native.NewBuffer(rhi.ResourceVertexBuffer, h, size, usage, d.releaser(h))
}

func (d *Device) CreateIndexBuffer(size uint32, format gputypes.IndexFormat, data []byte, usage rhi.BufferUsage) rhi.IndexBuffer {
	if _, ok := indexFormat(format); !ok {
		d.warn("unsupported index format", "format", format)
		return nil
	}
	h, ok := d.createBuffer(rhi.ResourceIndexBuffer, size, data)
	if !ok {
		return nil
	}
	return native.NewIndexBuffer(h, size, format, usage, d.releaser(h))
}

func (d *Device) CreateUniformBuffer(size uint32, data []byte, usage rhi.BufferUsage) rhi.UniformBuffer {
	if uint64(size) > d.caps.MaxUniformBufferSize {
		d.warn("uniform buffer too large", "size", size, "max", d.caps.MaxUniformBufferSize)
		return nil
	}
	h, ok := d.createBuffer(rhi.ResourceUniformBuffer, size, data)
	if !ok {
		return nil
	}
	return native.NewBuffer(rhi.ResourceUniformBuffer, h, size, usage, d.releaser(h))
}

// CreateTextureBuffer creates a read-only storage buffer. Shaders read it as
// an array of texels of format.
func (d *Device) CreateTextureBuffer(size uint32, format gputypes.TextureFormat, data []byte) rhi.TextureBuffer {
	if _, ok := texelSize(format); !ok {
		d.warn("unsupported texture buffer format", "format", format)
		return nil
	}
	h, ok := d.createBuffer(rhi.ResourceTextureBuffer, size, data)
	if !ok {
		return nil
	}
	return native.NewTextureBuffer(h, size, format, d.releaser(h))
}

// --------------------------------------------------------------------------
// Textures and samplers
// --------------------------------------------------------------------------

func (d *Device) createTexture(w, h, layers, mips uint32, format gputypes.TextureFormat, renderTarget bool, data []byte) (native.Handle, bool) {
	if !d.ready("texture creation") {
		return 0, false
	}
	if w == 0 || h == 0 || format == gputypes.TextureFormatUndefined ||
		w > d.caps.MaxTextureDimension || h > d.caps.MaxTextureDimension {
		d.warn("texture creation failed", "format", format, "width", w, "height", h)
		return 0, false
	}
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	if renderTarget || format.IsDepthStencil() {
		usage |= gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc
	}
	tex, err := d.device.CreateTexture(&gpuhal.TextureDescriptor{
		Label:         d.opts.Label,
		Size:          gpuhal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: max(layers, 1)},
		MipLevelCount: max(mips, 1),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		d.warn("texture creation failed", "format", format, "err", err)
		return 0, false
	}
	dim := gputypes.TextureViewDimension2D
	if layers > 0 {
		dim = gputypes.TextureViewDimension2DArray
	}
	view, err := d.device.CreateTextureView(tex, &gpuhal.TextureViewDescriptor{
		Label:     d.opts.Label,
		Format:    format,
		Dimension: dim,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		d.warn("texture view creation failed", "format", format, "err", err)
		return 0, false
	}
	obj := &object{texture: tex, view: view, format: format, usage: usage}
	if len(data) > 0 {
		if err := d.upload(tex, w, h, max(layers, 1), format, data); err != nil {
			d.destroyObject(obj)
			d.warn("texture upload failed", "format", format, "err", err)
			return 0, false
		}
	}
	return d.store(obj), true
}

// upload writes tightly packed rows of the first mip level of every layer.
func (d *Device) upload(tex gpuhal.Texture, w, h, layers uint32, format gputypes.TextureFormat, data []byte) error {
	texel, ok := texelSize(format)
	if !ok {
		return fmt.Errorf("hal: no upload path for %v", format)
	}
	row := w * texel
	if need := uint64(row) * uint64(h) * uint64(layers); uint64(len(data)) < need {
		return fmt.Errorf("hal: texture data is %d bytes, want %d", len(data), need)
	}
	return d.queue.WriteTexture(
		&gpuhal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		data,
		&gpuhal.ImageDataLayout{BytesPerRow: row, RowsPerImage: h},
		&gpuhal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: layers},
	)
}

func (d *Device) CreateTexture2D(desc *rhi.Texture2DDesc) rhi.Texture2D {
	if desc == nil {
		return nil
	}
	h, ok := d.createTexture(desc.Width, desc.Height, 0, desc.MipLevels, desc.Format, desc.RenderTarget, desc.Data)
	if !ok {
		return nil
	}
	return native.NewTexture(h, desc.Width, desc.Height, 0, desc.Format, d.releaser(h))
}

func (d *Device) CreateTexture2DArray(desc *rhi.Texture2DArrayDesc) rhi.Texture2DArray {
	if desc == nil {
		return nil
	}
	layers := max(desc.Layers, 1)
	if layers > d.caps.MaxTextureArraySlices {
		d.warn("texture array too large", "layers", layers, "max", d.caps.MaxTextureArraySlices)
		return nil
	}
	h, ok := d.createTexture(desc.Width, desc.Height, layers, 1, desc.Format, false, desc.Data)
	if !ok {
		return nil
	}
	return native.NewTexture(h, desc.Width, desc.Height, layers, desc.Format, d.releaser(h))
}

// CreateSamplerState ignores MipLODBias and BorderColor, which the HAL
// sampler has no field for.
func (d *Device) CreateSamplerState(desc *rhi.SamplerStateDesc) rhi.SamplerState {
	if desc == nil || !d.ready("sampler creation") {
		return nil
	}
	s, err := d.device.CreateSampler(samplerDescriptor(d.opts.Label, desc))
	if err != nil {
		d.warn("sampler creation failed", "err", err)
		return nil
	}
	h := d.store(&object{sampler: s})
	return native.NewSampler(h, *desc, d.releaser(h))
}

// --------------------------------------------------------------------------
// Shaders and programs
// --------------------------------------------------------------------------

// CreateShader reflects src and creates its shader module.
func (d *Device) CreateShader(stage rhi.ShaderStage, src rhi.ShaderSource) rhi.Shader {
	if !d.ready("shader creation") {
		return nil
	}
	if !d.caps.StageSupported(stage) {
		d.warn("unsupported shader stage", "stage", stage)
		return nil
	}
	refl, err := shader.Reflect(src.WGSL)
	if err != nil {
		d.warn("shader reflection failed", "stage", stage, "err", err)
		return nil
	}
	ep, err := refl.EntryPoint(stage, src.EntryPoint)
	if err != nil {
		d.warn("shader entry point missing", "stage", stage, "err", err)
		return nil
	}
	module, err := d.createShaderModule(src.WGSL)
	if err != nil {
		d.warn("shader compilation failed", "stage", stage, "err", err)
		return nil
	}
	h := d.store(&object{module: module})
	s := native.NewShader(h, stage, ep.Name, refl, d.releaser(h))
	s.Source = src.WGSL
	return s
}

// createShaderModule creates a module from WGSL, compiled to SPIR-V for
// Vulkan.
func (d *Device) createShaderModule(wgsl string) (gpuhal.ShaderModule, error) {
	src := gpuhal.ShaderSource{WGSL: wgsl}
	if d.variant == gputypes.BackendVulkan {
		words, err := shader.CompileSPIRV(wgsl)
		if err != nil {
			return nil, err
		}
		src = gpuhal.ShaderSource{SPIRV: words}
	}
	return d.device.CreateShaderModule(&gpuhal.ShaderModuleDescriptor{Label: d.opts.Label, Source: src})
}

// CreateProgram links shaders of this device. With a root signature the
// layouts are created up front, so a program whose globals cannot be laid
// out is rejected here.
func (d *Device) CreateProgram(rs rhi.RootSignature, _ []rhi.VertexAttribute, shaders ...rhi.Shader) rhi.Program {
	var vertex bool
	for _, s := range shaders {
		ns, ok := s.(*native.Shader)
		if !ok || d.object(ns.Handle) == nil {
			d.warn("foreign shader object")
			return nil
		}
		vertex = vertex || ns.Stage() == rhi.StageVertex
	}
	if !vertex {
		d.warn("program without vertex shader")
		return nil
	}
	var p *native.Program
	p = native.NewProgram(0, shaders, func() {
		d.dropLayouts(func(k layoutKey) bool { return k.prog == p })
	})
	if nrs, ok := rs.(*native.RootSignature); ok {
		if _, err := d.layoutSet(nrs, p); err != nil {
			d.warn("program layout failed", "err", err)
			rhi.Release(p)
			return nil
		}
	}
	return p
}

// --------------------------------------------------------------------------
// Pipeline state, vertex arrays and render targets
// --------------------------------------------------------------------------

// CreatePipelineState creates the render pipeline for the default topology
// of the topology class. Other topologies of the class are created on first
// draw. Fill mode and depth clipping are fixed by the HAL.
func (d *Device) CreatePipelineState(desc *rhi.PipelineStateDesc) rhi.PipelineState {
	if desc == nil || desc.Program == nil {
		d.warn("pipeline state without program")
		return nil
	}
	prog, ok := desc.Program.(*native.Program)
	if !ok {
		d.warn("pipeline state with a foreign program")
		return nil
	}
	rs, ok := desc.RootSignature.(*native.RootSignature)
	if !ok {
		d.warn("pipeline state without root signature")
		return nil
	}
	top, ok := defaultTopology(desc.TopologyType)
	if !ok {
		d.warn("unsupported topology type", "type", desc.TopologyType)
		return nil
	}
	set, err := d.layoutSet(rs, prog)
	if err != nil {
		d.warn("pipeline layout failed", "err", err)
		return nil
	}

	pl := &pipeline{id: d.nextID.Add(1), set: set, scissor: desc.Rasterizer.ScissorEnable}
	var ps *native.PipelineState
	ps = native.NewPipelineState(0, desc, func() {
		d.mu.Lock()
		delete(d.pipelines, ps)
		d.mu.Unlock()
		renders := d.renders.evict(func(k renderKey) bool { return k.pipeline == pl.id })
		d.retire(func() {
			for _, r := range renders {
				d.device.DestroyRenderPipeline(r)
			}
		})
	})
	if err := d.describe(pl, &ps.Desc, prog); err != nil {
		d.warn("pipeline state rejected", "err", err)
		rhi.Release(ps)
		return nil
	}
	if _, err := d.renderPipeline(pl, top); err != nil {
		d.warn("render pipeline creation failed", "err", err)
		rhi.Release(ps)
		return nil
	}
	d.mu.Lock()
	d.pipelines[ps] = pl
	d.mu.Unlock()
	return ps
}

// describe fills the render pipeline template of pl from desc.
func (d *Device) describe(pl *pipeline, desc *rhi.PipelineStateDesc, prog *native.Program) error {
	vs, _ := prog.Shader(rhi.StageVertex).(*native.Shader)
	if vs == nil {
		return errors.New("hal: program without vertex shader")
	}
	vsObj := d.object(vs.Handle)
	if vsObj == nil {
		return errors.New("hal: vertex shader destroyed")
	}
	pl.slots = vertexSlots(desc.VertexAttributes)
	pl.desc = gpuhal.RenderPipelineDescriptor{
		Label:  d.opts.Label,
		Layout: pl.set.pipeline,
		Vertex: gpuhal.VertexState{
			Module:     vsObj.module,
			EntryPoint: vs.EntryPoint(),
			Buffers:    rhi.VertexLayout(desc.VertexAttributes),
		},
		Primitive: gputypes.PrimitiveState{
			FrontFace: desc.Rasterizer.FrontFace,
			CullMode:  desc.Rasterizer.CullMode,
		},
		DepthStencil: depthStencilState(desc),
		Multisample: gputypes.MultisampleState{
			Count:                  max(desc.SampleCount, 1),
			Mask:                   ^uint64(0),
			AlphaToCoverageEnabled: desc.Blend.AlphaToCoverage,
		},
	}
	if fs, _ := prog.Shader(rhi.StageFragment).(*native.Shader); fs != nil {
		fsObj := d.object(fs.Handle)
		if fsObj == nil {
			return errors.New("hal: fragment shader destroyed")
		}
		pl.desc.Fragment = &gpuhal.FragmentState{
			Module:     fsObj.module,
			EntryPoint: fs.EntryPoint(),
			Targets:    desc.ColorTargets(),
		}
	}
	return nil
}

// renderPipeline returns the render pipeline of pl for topology t.
func (d *Device) renderPipeline(pl *pipeline, t gputypes.PrimitiveTopology) (gpuhal.RenderPipeline, error) {
	return d.renders.getOrCreate(renderKey{pipeline: pl.id, topology: t}, func() (gpuhal.RenderPipeline, error) {
		desc := pl.desc
		desc.Primitive.Topology = t
		return d.device.CreateRenderPipeline(&desc)
	})
}

func (d *Device) pipelineOf(ps rhi.PipelineState) *pipeline {
	nps, ok := ps.(*native.PipelineState)
	if !ok {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pipelines[nps]
}

// vertexSlots returns the input slots attrs read from in ascending order,
// the order rhi.VertexLayout lists their buffer layouts in.
func vertexSlots(attrs []rhi.VertexAttribute) []uint32 {
	var slots []uint32
	for _, a := range attrs {
		if !slices.Contains(slots, a.InputSlot) {
			slots = append(slots, a.InputSlot)
		}
	}
	slices.Sort(slots)
	return slots
}

func (d *Device) CreateVertexArray(desc *rhi.VertexArrayDesc) rhi.VertexArray {
	if desc == nil {
		return nil
	}
	for _, a := range desc.Attributes {
		if int(a.InputSlot) >= len(desc.VertexBuffers) || desc.VertexBuffers[a.InputSlot].Buffer == nil {
			d.warn("vertex attribute without buffer", "attribute", a.Name, "slot", a.InputSlot)
			return nil
		}
	}
	return native.NewVertexArray(0, desc, nil)
}

func (d *Device) CreateFramebuffer(color []rhi.Texture, depthStencil rhi.Texture) rhi.Framebuffer {
	for i, t := range color {
		if t == nil {
			continue
		}
		obj := d.objectOf(t)
		if obj == nil || obj.usage&gputypes.TextureUsageRenderAttachment == 0 || obj.format.IsDepthStencil() {
			d.warn("color attachment is not a render target", "index", i)
			return nil
		}
	}
	if depthStencil != nil {
		if obj := d.objectOf(depthStencil); obj == nil || !obj.format.IsDepthStencil() {
			d.warn("depth attachment has no depth format")
			return nil
		}
	}
	return native.NewFramebuffer(0, color, depthStencil, nil)
}

// CreateSwapChain renders into an offscreen texture. Present completes the
// frame without showing it.
func (d *Device) CreateSwapChain(width, height uint32, format gputypes.TextureFormat) rhi.SwapChain {
	if format.IsDepthStencil() {
		d.warn("unsupported swap chain format", "format", format)
		return nil
	}
	h, ok := d.createTexture(width, height, 0, 1, format, true, nil)
	if !ok {
		return nil
	}
	present := func() {
		n := d.presents.Add(1)
		d.collect()
		d.opts.Log().Debug("rhi: present", "backend", d.name, "frame", n)
	}
	return native.NewSwapChain(h, width, height, format, present, d.releaser(h))
}

// --------------------------------------------------------------------------
// Submission
// --------------------------------------------------------------------------

// Submit records cb into one command encoder and submits it. Calls must not
// overlap.
func (d *Device) Submit(cb *rhi.CommandBuffer) {
	if cb == nil || cb.IsEmpty() || d.device == nil {
		return
	}
	if !d.exec.begin() {
		return
	}
	cb.Execute(&d.exec)
	d.exec.end()
	d.collect()
}

// Close waits for the GPU, then destroys every object the device holds.
func (d *Device) Close() {
	d.exec.reset()
	d.state.Reset()
	if d.device == nil {
		return
	}
	if err := d.device.WaitIdle(); err != nil {
		d.warn("wait idle failed", "err", err)
	}
	d.drain(^uint64(0))
	for _, r := range d.renders.evict(func(renderKey) bool { return true }) {
		d.device.DestroyRenderPipeline(r)
	}
	for _, g := range d.groups.evict(func(groupKey) bool { return true }) {
		d.device.DestroyBindGroup(g)
	}
	for _, set := range d.layouts.evict(func(layoutKey) bool { return true }) {
		d.destroyLayoutSet(set)
	}
	d.mu.Lock()
	objects := d.objects
	d.objects = make(map[native.Handle]*object)
	clear(d.pipelines)
	d.mu.Unlock()
	for _, obj := range objects {
		d.destroyObject(obj)
	}
	if d.owned {
		d.device.Destroy()
		d.instance.Destroy()
	}
	d.device, d.queue, d.instance = nil, nil, nil
}
