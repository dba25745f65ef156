package rhi

// VertexArrayVertexBuffer is one vertex buffer binding of a vertex array.
type VertexArrayVertexBuffer struct {
	Buffer VertexBuffer
	// Stride overrides the attribute stride when non-zero.
	Stride uint32
	Offset uint32
}

// VertexArrayDesc describes a vertex array object.
type VertexArrayDesc struct {
	Attributes    []VertexAttribute
	VertexBuffers []VertexArrayVertexBuffer
	// IndexBuffer is optional.
	IndexBuffer IndexBuffer
}

// VertexArray binds vertex buffers and an optional index buffer to a vertex
// layout. It keeps its buffers alive.
type VertexArray interface {
	Resource
	VertexBuffers() []VertexArrayVertexBuffer
	IndexBuffer() IndexBuffer
	Attributes() []VertexAttribute
}

// VertexArrayBase implements the ownership half of VertexArray for backends.
type VertexArrayBase struct {
	RefCounted
	attributes    []VertexAttribute
	vertexBuffers []VertexArrayVertexBuffer
	indexBuffer   IndexBuffer
}

// InitVertexArrayBase copies desc and retains every buffer it names.
// release runs before the buffers are released.
func (v *VertexArrayBase) InitVertexArrayBase(desc *VertexArrayDesc, release func()) {
	v.attributes = append([]VertexAttribute(nil), desc.Attributes...)
	v.vertexBuffers = make([]VertexArrayVertexBuffer, len(desc.VertexBuffers))
	for i, vb := range desc.VertexBuffers {
		vb.Buffer = Retain(vb.Buffer)
		if vb.Stride == 0 {
			vb.Stride = strideForSlot(desc.Attributes, uint32(i))
		}
		v.vertexBuffers[i] = vb
	}
	v.indexBuffer = Retain(desc.IndexBuffer)
	v.InitRefCounted(ResourceVertexArray, func() {
		if release != nil {
			release()
		}
		for i := range v.vertexBuffers {
			Release(v.vertexBuffers[i].Buffer)
			v.vertexBuffers[i].Buffer = nil
		}
		Release(v.indexBuffer)
		v.indexBuffer = nil
	})
}

func strideForSlot(attrs []VertexAttribute, slot uint32) uint32 {
	for _, a := range attrs {
		if a.InputSlot == slot && a.Stride != 0 {
			return a.Stride
		}
	}
	return 0
}

// VertexBuffers implements VertexArray.
func (v *VertexArrayBase) VertexBuffers() []VertexArrayVertexBuffer { return v.vertexBuffers }

// IndexBuffer implements VertexArray.
func (v *VertexArrayBase) IndexBuffer() IndexBuffer { return v.indexBuffer }

// Attributes implements VertexArray.
func (v *VertexArrayBase) Attributes() []VertexAttribute { return v.attributes }
