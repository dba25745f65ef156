package d3d

// Object is a native object. Zero is never a live object.
type Object uint32

type (
	DXGI_FORMAT          uint32
	PRIMITIVE_TOPOLOGY   uint32
	FILTER               uint32
	TEXTURE_ADDRESS_MODE uint32
	COMPARISON_FUNC      uint32
	STENCIL_OP           uint32
	BLEND                uint32
	BLEND_OP             uint32
	CULL_MODE            uint32
	FILL_MODE            uint32
	USAGE                uint32
	BIND_FLAG            uint32
	INPUT_CLASSIFICATION uint32
	CLEAR_FLAG           uint32
	COLOR_WRITE_ENABLE   uint8
)

const (
	DXGI_FORMAT_UNKNOWN             DXGI_FORMAT = 0
	DXGI_FORMAT_R32G32B32A32_FLOAT  DXGI_FORMAT = 2
	DXGI_FORMAT_R32G32B32_FLOAT     DXGI_FORMAT = 6
	DXGI_FORMAT_R16G16B16A16_FLOAT  DXGI_FORMAT = 10
	DXGI_FORMAT_R32G32_FLOAT        DXGI_FORMAT = 16
	DXGI_FORMAT_R8G8B8A8_UNORM      DXGI_FORMAT = 28
	DXGI_FORMAT_R8G8B8A8_UNORM_SRGB DXGI_FORMAT = 29
	DXGI_FORMAT_D32_FLOAT           DXGI_FORMAT = 40
	DXGI_FORMAT_R32_FLOAT           DXGI_FORMAT = 41
	DXGI_FORMAT_R32_UINT            DXGI_FORMAT = 42
	DXGI_FORMAT_D24_UNORM_S8_UINT   DXGI_FORMAT = 45
	DXGI_FORMAT_D16_UNORM           DXGI_FORMAT = 55
	DXGI_FORMAT_R16_UINT            DXGI_FORMAT = 57
	DXGI_FORMAT_R8_UNORM            DXGI_FORMAT = 61
	DXGI_FORMAT_B8G8R8A8_UNORM      DXGI_FORMAT = 87
)

const (
	PRIMITIVE_TOPOLOGY_UNDEFINED     PRIMITIVE_TOPOLOGY = 0
	PRIMITIVE_TOPOLOGY_POINTLIST     PRIMITIVE_TOPOLOGY = 1
	PRIMITIVE_TOPOLOGY_LINELIST      PRIMITIVE_TOPOLOGY = 2
	PRIMITIVE_TOPOLOGY_LINESTRIP     PRIMITIVE_TOPOLOGY = 3
	PRIMITIVE_TOPOLOGY_TRIANGLELIST  PRIMITIVE_TOPOLOGY = 4
	PRIMITIVE_TOPOLOGY_TRIANGLESTRIP PRIMITIVE_TOPOLOGY = 5
)

// Filters encode linear minification, magnification and mip filtering as
// separate bits.
const (
	FILTER_MIN_MAG_MIP_POINT               FILTER = 0x00
	FILTER_MIN_MAG_POINT_MIP_LINEAR        FILTER = 0x01
	FILTER_MIN_POINT_MAG_LINEAR_MIP_POINT  FILTER = 0x04
	FILTER_MIN_POINT_MAG_MIP_LINEAR        FILTER = 0x05
	FILTER_MIN_LINEAR_MAG_MIP_POINT        FILTER = 0x10
	FILTER_MIN_LINEAR_MAG_POINT_MIP_LINEAR FILTER = 0x11
	FILTER_MIN_MAG_LINEAR_MIP_POINT        FILTER = 0x14
	FILTER_MIN_MAG_MIP_LINEAR              FILTER = 0x15
	FILTER_ANISOTROPIC                     FILTER = 0x55
	FILTER_COMPARISON_MIN_MAG_MIP_POINT    FILTER = 0x80
	FILTER_COMPARISON_MIN_MAG_MIP_LINEAR   FILTER = 0x95
	FILTER_COMPARISON_ANISOTROPIC          FILTER = 0xD5
	filterMipLinear                        FILTER = 0x01
	filterMagLinear                        FILTER = 0x04
	filterMinLinear                        FILTER = 0x10
	filterComparison                       FILTER = 0x80
)

const (
	TEXTURE_ADDRESS_WRAP   TEXTURE_ADDRESS_MODE = 1
	TEXTURE_ADDRESS_MIRROR TEXTURE_ADDRESS_MODE = 2
	TEXTURE_ADDRESS_CLAMP  TEXTURE_ADDRESS_MODE = 3
	TEXTURE_ADDRESS_BORDER TEXTURE_ADDRESS_MODE = 4
)

const (
	COMPARISON_NEVER         COMPARISON_FUNC = 1
	COMPARISON_LESS          COMPARISON_FUNC = 2
	COMPARISON_EQUAL         COMPARISON_FUNC = 3
	COMPARISON_LESS_EQUAL    COMPARISON_FUNC = 4
	COMPARISON_GREATER       COMPARISON_FUNC = 5
	COMPARISON_NOT_EQUAL     COMPARISON_FUNC = 6
	COMPARISON_GREATER_EQUAL COMPARISON_FUNC = 7
	COMPARISON_ALWAYS        COMPARISON_FUNC = 8
)

const (
	STENCIL_OP_KEEP     STENCIL_OP = 1
	STENCIL_OP_ZERO     STENCIL_OP = 2
	STENCIL_OP_REPLACE  STENCIL_OP = 3
	STENCIL_OP_INCR_SAT STENCIL_OP = 4
	STENCIL_OP_DECR_SAT STENCIL_OP = 5
	STENCIL_OP_INVERT   STENCIL_OP = 6
	STENCIL_OP_INCR     STENCIL_OP = 7
	STENCIL_OP_DECR     STENCIL_OP = 8
)

const (
	BLEND_ZERO             BLEND = 1
	BLEND_ONE              BLEND = 2
	BLEND_SRC_COLOR        BLEND = 3
	BLEND_INV_SRC_COLOR    BLEND = 4
	BLEND_SRC_ALPHA        BLEND = 5
	BLEND_INV_SRC_ALPHA    BLEND = 6
	BLEND_DEST_ALPHA       BLEND = 7
	BLEND_INV_DEST_ALPHA   BLEND = 8
	BLEND_DEST_COLOR       BLEND = 9
	BLEND_INV_DEST_COLOR   BLEND = 10
	BLEND_SRC_ALPHA_SAT    BLEND = 11
	BLEND_BLEND_FACTOR     BLEND = 14
	BLEND_INV_BLEND_FACTOR BLEND = 15
)

const (
	BLEND_OP_ADD          BLEND_OP = 1
	BLEND_OP_SUBTRACT     BLEND_OP = 2
	BLEND_OP_REV_SUBTRACT BLEND_OP = 3
	BLEND_OP_MIN          BLEND_OP = 4
	BLEND_OP_MAX          BLEND_OP = 5
)

const (
	CULL_NONE  CULL_MODE = 1
	CULL_FRONT CULL_MODE = 2
	CULL_BACK  CULL_MODE = 3

	FILL_WIREFRAME FILL_MODE = 2
	FILL_SOLID     FILL_MODE = 3
)

const (
	USAGE_DEFAULT   USAGE = 0
	USAGE_IMMUTABLE USAGE = 1
	USAGE_DYNAMIC   USAGE = 2
)

const (
	BIND_VERTEX_BUFFER    BIND_FLAG = 0x1
	BIND_INDEX_BUFFER     BIND_FLAG = 0x2
	BIND_CONSTANT_BUFFER  BIND_FLAG = 0x4
	BIND_SHADER_RESOURCE  BIND_FLAG = 0x8
	BIND_RENDER_TARGET    BIND_FLAG = 0x20
	BIND_DEPTH_STENCIL    BIND_FLAG = 0x40
	BIND_UNORDERED_ACCESS BIND_FLAG = 0x80
)

const (
	INPUT_PER_VERTEX_DATA   INPUT_CLASSIFICATION = 0
	INPUT_PER_INSTANCE_DATA INPUT_CLASSIFICATION = 1

	CLEAR_DEPTH   CLEAR_FLAG = 0x1
	CLEAR_STENCIL CLEAR_FLAG = 0x2
)

const (
	COLOR_WRITE_ENABLE_RED   COLOR_WRITE_ENABLE = 1
	COLOR_WRITE_ENABLE_GREEN COLOR_WRITE_ENABLE = 2
	COLOR_WRITE_ENABLE_BLUE  COLOR_WRITE_ENABLE = 4
	COLOR_WRITE_ENABLE_ALPHA COLOR_WRITE_ENABLE = 8
	COLOR_WRITE_ENABLE_ALL   COLOR_WRITE_ENABLE = 15
)

type BUFFER_DESC struct {
	ByteWidth           uint32
	Usage               USAGE
	BindFlags           BIND_FLAG
	StructureByteStride uint32
}

type TEXTURE2D_DESC struct {
	Width     uint32
	Height    uint32
	MipLevels uint32
	ArraySize uint32
	Format    DXGI_FORMAT
	BindFlags BIND_FLAG
}

type SAMPLER_DESC struct {
	Filter         FILTER
	AddressU       TEXTURE_ADDRESS_MODE
	AddressV       TEXTURE_ADDRESS_MODE
	AddressW       TEXTURE_ADDRESS_MODE
	MipLODBias     float32
	MaxAnisotropy  uint32
	ComparisonFunc COMPARISON_FUNC
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

type INPUT_ELEMENT_DESC struct {
	SemanticName         string
	SemanticIndex        uint32
	Format               DXGI_FORMAT
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       INPUT_CLASSIFICATION
	InstanceDataStepRate uint32
}

type RASTERIZER_DESC struct {
	FillMode              FILL_MODE
	CullMode              CULL_MODE
	FrontCounterClockwise bool
	DepthBias             int32
	SlopeScaledDepthBias  float32
	DepthClipEnable       bool
	ScissorEnable         bool
	MultisampleEnable     bool
}

type DEPTH_STENCILOP_DESC struct {
	StencilFailOp      STENCIL_OP
	StencilDepthFailOp STENCIL_OP
	StencilPassOp      STENCIL_OP
	StencilFunc        COMPARISON_FUNC
}

type DEPTH_STENCIL_DESC struct {
	DepthEnable      bool
	DepthWriteMask   bool
	DepthFunc        COMPARISON_FUNC
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        DEPTH_STENCILOP_DESC
	BackFace         DEPTH_STENCILOP_DESC
}

type RENDER_TARGET_BLEND_DESC struct {
	BlendEnable           bool
	SrcBlend              BLEND
	DestBlend             BLEND
	BlendOp               BLEND_OP
	SrcBlendAlpha         BLEND
	DestBlendAlpha        BLEND
	BlendOpAlpha          BLEND_OP
	RenderTargetWriteMask COLOR_WRITE_ENABLE
}

type BLEND_DESC struct {
	AlphaToCoverageEnable  bool
	IndependentBlendEnable bool
	RenderTarget           [8]RENDER_TARGET_BLEND_DESC
}

type VIEWPORT struct {
	TopLeftX, TopLeftY float32
	Width, Height      float32
	MinDepth, MaxDepth float32
}

type RECT struct {
	Left, Top, Right, Bottom int32
}
