package gl

// Enum is an OpenGL enumerant.
type Enum uint32

// Object kinds the device creates.
type (
	Buffer      uint32
	Texture     uint32
	Sampler     uint32
	Shader      uint32
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	// Uniform is a uniform location. -1 is not a location.
	Uniform int32
)

// InvalidIndex is returned by GetUniformBlockIndex for an unknown block.
const InvalidIndex = ^uint32(0)

// Enumerants used by the device.
const (
	ZERO Enum = 0
	ONE  Enum = 1

	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005

	NEVER    Enum = 0x0200
	LESS     Enum = 0x0201
	EQUAL    Enum = 0x0202
	LEQUAL   Enum = 0x0203
	GREATER  Enum = 0x0204
	NOTEQUAL Enum = 0x0205
	GEQUAL   Enum = 0x0206
	ALWAYS   Enum = 0x0207

	SRC_COLOR                Enum = 0x0300
	ONE_MINUS_SRC_COLOR      Enum = 0x0301
	SRC_ALPHA                Enum = 0x0302
	ONE_MINUS_SRC_ALPHA      Enum = 0x0303
	DST_ALPHA                Enum = 0x0304
	ONE_MINUS_DST_ALPHA      Enum = 0x0305
	DST_COLOR                Enum = 0x0306
	ONE_MINUS_DST_COLOR      Enum = 0x0307
	SRC_ALPHA_SATURATE       Enum = 0x0308
	CONSTANT_COLOR           Enum = 0x8001
	ONE_MINUS_CONSTANT_COLOR Enum = 0x8002

	FUNC_ADD              Enum = 0x8006
	MIN                   Enum = 0x8007
	MAX                   Enum = 0x8008
	FUNC_SUBTRACT         Enum = 0x800A
	FUNC_REVERSE_SUBTRACT Enum = 0x800B

	KEEP      Enum = 0x1E00
	REPLACE   Enum = 0x1E01
	INCR      Enum = 0x1E02
	DECR      Enum = 0x1E03
	INVERT    Enum = 0x150A
	INCR_WRAP Enum = 0x8507
	DECR_WRAP Enum = 0x8508

	FRONT          Enum = 0x0404
	BACK           Enum = 0x0405
	FRONT_AND_BACK Enum = 0x0408
	CW             Enum = 0x0900
	CCW            Enum = 0x0901
	LINE           Enum = 0x1B01
	FILL           Enum = 0x1B02

	CULL_FACE                Enum = 0x0B44
	DEPTH_TEST               Enum = 0x0B71
	STENCIL_TEST             Enum = 0x0B90
	BLEND                    Enum = 0x0BE2
	SCISSOR_TEST             Enum = 0x0C11
	POLYGON_OFFSET_FILL      Enum = 0x8037
	SAMPLE_ALPHA_TO_COVERAGE Enum = 0x809E
	MULTISAMPLE              Enum = 0x809D
	DEPTH_CLAMP              Enum = 0x864F

	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	INT            Enum = 0x1404
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406
	HALF_FLOAT     Enum = 0x140B

	DEPTH_COMPONENT   Enum = 0x1902
	RED               Enum = 0x1903
	RGBA              Enum = 0x1908
	BGRA              Enum = 0x80E1
	DEPTH_STENCIL     Enum = 0x84F9
	UNSIGNED_INT_24_8 Enum = 0x84FA

	R8                 Enum = 0x8229
	RGBA8              Enum = 0x8058
	SRGB8_ALPHA8       Enum = 0x8C43
	RGBA16F            Enum = 0x881A
	RGBA32F            Enum = 0x8814
	DEPTH_COMPONENT16  Enum = 0x81A5
	DEPTH_COMPONENT24  Enum = 0x81A6
	DEPTH_COMPONENT32F Enum = 0x8CAC
	DEPTH24_STENCIL8   Enum = 0x88F0

	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_NEAREST  Enum = 0x2701
	NEAREST_MIPMAP_LINEAR  Enum = 0x2702
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703

	TEXTURE_MAG_FILTER          Enum = 0x2800
	TEXTURE_MIN_FILTER          Enum = 0x2801
	TEXTURE_WRAP_S              Enum = 0x2802
	TEXTURE_WRAP_T              Enum = 0x2803
	TEXTURE_WRAP_R              Enum = 0x8072
	TEXTURE_MIN_LOD             Enum = 0x813A
	TEXTURE_MAX_LOD             Enum = 0x813B
	TEXTURE_LOD_BIAS            Enum = 0x8501
	TEXTURE_BORDER_COLOR        Enum = 0x1004
	TEXTURE_MAX_ANISOTROPY      Enum = 0x84FE
	TEXTURE_COMPARE_MODE        Enum = 0x884C
	TEXTURE_COMPARE_FUNC        Enum = 0x884D
	COMPARE_REF_TO_TEXTURE      Enum = 0x884E
	REPEAT                      Enum = 0x2901
	CLAMP_TO_EDGE               Enum = 0x812F
	MIRRORED_REPEAT             Enum = 0x8370
	TEXTURE_2D                  Enum = 0x0DE1
	TEXTURE_2D_ARRAY            Enum = 0x8C1A
	TEXTURE_BUFFER              Enum = 0x8C2A
	TEXTURE0                    Enum = 0x84C0
	ARRAY_BUFFER                Enum = 0x8892
	ELEMENT_ARRAY_BUFFER        Enum = 0x8893
	UNIFORM_BUFFER              Enum = 0x8A11
	SHADER_STORAGE_BUFFER       Enum = 0x90D2
	STATIC_DRAW                 Enum = 0x88E4
	STREAM_DRAW                 Enum = 0x88E0
	DYNAMIC_DRAW                Enum = 0x88E8
	READ_WRITE                  Enum = 0x88BA
	FRAMEBUFFER                 Enum = 0x8D40
	COLOR_ATTACHMENT0           Enum = 0x8CE0
	DEPTH_ATTACHMENT            Enum = 0x8D00
	DEPTH_STENCIL_ATTACHMENT    Enum = 0x821A
	VERTEX_SHADER               Enum = 0x8B31
	FRAGMENT_SHADER             Enum = 0x8B30
	GEOMETRY_SHADER             Enum = 0x8DD9
	TESS_CONTROL_SHADER         Enum = 0x8E88
	TESS_EVALUATION_SHADER      Enum = 0x8E87
	DEBUG_SOURCE_APPLICATION    Enum = 0x824A
	DEBUG_TYPE_MARKER           Enum = 0x8268
	DEBUG_SEVERITY_NOTIFICATION Enum = 0x826B

	COLOR_BUFFER_BIT   Enum = 0x00004000
	DEPTH_BUFFER_BIT   Enum = 0x00000100
	STENCIL_BUFFER_BIT Enum = 0x00000400
)
