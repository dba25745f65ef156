package rhi

// FramebufferSize returns the largest size every attachment can serve: the
// minimum width and height over the 2D and 2D-array attachments. Attachments
// of other kinds and nil entries are ignored. It returns 0, 0 when nothing
// qualifies.
func FramebufferSize(color []Texture, depthStencil Texture) (width, height uint32) {
	first := true
	visit := func(t Texture) {
		if t == nil {
			return
		}
		switch t.ResourceType() {
		case ResourceTexture2D, ResourceTexture2DArray:
		default:
			return
		}
		if first {
			width, height = t.Width(), t.Height()
			first = false
			return
		}
		width = min(width, t.Width())
		height = min(height, t.Height())
	}
	for _, t := range color {
		visit(t)
	}
	visit(depthStencil)
	return width, height
}

// FramebufferBase implements the ownership half of Framebuffer for backends.
type FramebufferBase struct {
	RefCounted
	color         []Texture
	depthStencil  Texture
	width, height uint32
}

// InitFramebufferBase retains the attachments and computes the size.
// release runs before the attachments are released.
func (f *FramebufferBase) InitFramebufferBase(color []Texture, depthStencil Texture, release func()) {
	f.color = make([]Texture, 0, len(color))
	for _, t := range color {
		if t != nil {
			f.color = append(f.color, Retain(t))
		}
	}
	f.depthStencil = Retain(depthStencil)
	f.width, f.height = FramebufferSize(f.color, f.depthStencil)
	f.InitRefCounted(ResourceFramebuffer, func() {
		if release != nil {
			release()
		}
		for i, t := range f.color {
			Release(t)
			f.color[i] = nil
		}
		Release(f.depthStencil)
		f.depthStencil = nil
	})
}

// Size implements RenderTarget.
func (f *FramebufferBase) Size() (width, height uint32) { return f.width, f.height }

// ColorTextures implements Framebuffer.
func (f *FramebufferBase) ColorTextures() []Texture { return f.color }

// DepthStencilTexture implements Framebuffer.
func (f *FramebufferBase) DepthStencilTexture() Texture { return f.depthStencil }

// ProgramBase implements the ownership half of Program for backends.
type ProgramBase struct {
	RefCounted
	shaders  []Shader
	bindings []ShaderBinding
}

// InitProgramBase retains the shaders and records the reflected bindings.
// release runs before the shaders are released.
func (p *ProgramBase) InitProgramBase(shaders []Shader, bindings []ShaderBinding, release func()) {
	p.shaders = make([]Shader, 0, len(shaders))
	for _, s := range shaders {
		if s != nil {
			p.shaders = append(p.shaders, Retain(s))
		}
	}
	p.bindings = bindings
	p.InitRefCounted(ResourceProgram, func() {
		if release != nil {
			release()
		}
		for i, s := range p.shaders {
			Release(s)
			p.shaders[i] = nil
		}
	})
}

// Shaders implements Program.
func (p *ProgramBase) Shaders() []Shader { return p.shaders }

// Bindings implements Program.
func (p *ProgramBase) Bindings() []ShaderBinding { return p.bindings }

// Shader returns the program's shader for stage s, or nil.
func (p *ProgramBase) Shader(s ShaderStage) Shader {
	for _, sh := range p.shaders {
		if sh != nil && sh.Stage() == s {
			return sh
		}
	}
	return nil
}
