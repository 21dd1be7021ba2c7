package spirvreflect

import "github.com/gogpu/spirvreflect/spirv"

// TypeFlags is a bitset describing the shape of a TypeDescription.
type TypeFlags uint32

const (
	TypeFlagVoid TypeFlags = 1 << iota
	TypeFlagBool
	TypeFlagInt
	TypeFlagFloat
	TypeFlagVector
	TypeFlagMatrix
	TypeFlagExternalBlock
	TypeFlagExternalSampledImage
	TypeFlagExternalSampler
	TypeFlagExternalImage
	TypeFlagArray
	TypeFlagStruct

	typeFlagExternalMask = TypeFlagExternalBlock | TypeFlagExternalSampledImage |
		TypeFlagExternalSampler | TypeFlagExternalImage
)

// DecorationFlags is a bitset of the boolean decorations recorded on a node,
// member, or block variable.
type DecorationFlags uint32

const (
	DecorationFlagBlock DecorationFlags = 1 << iota
	DecorationFlagBufferBlock
	DecorationFlagRowMajor
	DecorationFlagColumnMajor
	DecorationFlagNoPerspective
	DecorationFlagFlat
	DecorationFlagNonWritable
)

// sentinelU32 marks an unset numbered decoration or id field, matching the
// reference parser's use of the maximum uint32 as "not set."
const sentinelU32 = ^uint32(0)

// NumberDecoration is a numeric decoration value together with the absolute
// word offset of that value in the original SPIR-V stream, so callers can
// rewrite binding/set/location in place without re-parsing.
type NumberDecoration struct {
	WordOffset uint32
	Value      uint32
}

func unsetNumberDecoration() NumberDecoration {
	return NumberDecoration{Value: sentinelU32}
}

func (d NumberDecoration) isSet() bool { return d.Value != sentinelU32 }

// StringDecoration is a string-valued decoration (HLSL semantic) together
// with the word offset where its bytes begin.
type StringDecoration struct {
	WordOffset uint32
	Value      string
}

// Decorations is the full set of reflection-relevant decorations that can be
// attached to a node or a struct member.
type Decorations struct {
	Flags                DecorationFlags
	BuiltIn              spirv.BuiltIn
	HasBuiltIn           bool
	Set                  NumberDecoration
	Binding              NumberDecoration
	Location             NumberDecoration
	Offset               NumberDecoration
	InputAttachmentIndex NumberDecoration
	UAVCounterBuffer     NumberDecoration
	ArrayStride          NumberDecoration
	MatrixStride         NumberDecoration
	Semantic             StringDecoration
}

func newDecorations() Decorations {
	return Decorations{
		Set:                  unsetNumberDecoration(),
		Binding:              unsetNumberDecoration(),
		Location:             unsetNumberDecoration(),
		Offset:               unsetNumberDecoration(),
		InputAttachmentIndex: unsetNumberDecoration(),
		UAVCounterBuffer:     unsetNumberDecoration(),
		ArrayStride:          unsetNumberDecoration(),
		MatrixStride:         unsetNumberDecoration(),
	}
}

func (d *Decorations) fold(other Decorations) {
	d.Flags |= other.Flags
	if other.HasBuiltIn {
		d.BuiltIn, d.HasBuiltIn = other.BuiltIn, true
	}
	if other.Set.isSet() {
		d.Set = other.Set
	}
	if other.Binding.isSet() {
		d.Binding = other.Binding
	}
	if other.Location.isSet() {
		d.Location = other.Location
	}
	if other.Offset.isSet() {
		d.Offset = other.Offset
	}
	if other.InputAttachmentIndex.isSet() {
		d.InputAttachmentIndex = other.InputAttachmentIndex
	}
	if other.UAVCounterBuffer.isSet() {
		d.UAVCounterBuffer = other.UAVCounterBuffer
	}
	if other.ArrayStride.isSet() {
		d.ArrayStride = other.ArrayStride
	}
	if other.MatrixStride.isSet() {
		d.MatrixStride = other.MatrixStride
	}
	if other.Semantic.Value != "" {
		d.Semantic = other.Semantic
	}
}

// arrayTraits holds OpTypeArray/OpTypeRuntimeArray traits captured at S1 and
// resolved at S4/S5.
type arrayTraits struct {
	elementTypeID uint32
	lengthID      uint32
}

// imageTraits holds OpTypeImage traits captured at S1.
type imageTraits struct {
	sampledTypeID uint32
	dim           spirv.Dim
	depth         uint32
	arrayed       uint32
	ms            uint32
	sampled       uint32
	imageFormat   spirv.ImageFormat
}

// Node is the raw unit produced by S1: one decoded SPIR-V instruction plus
// whatever opcode-specific traits later stages need.
type Node struct {
	ResultID     uint32
	Op           spirv.OpCode
	ResultTypeID uint32
	TypeID       uint32
	StorageClass spirv.StorageClass
	HasStorage   bool
	WordOffset   uint32
	WordCount    uint32
	IsType       bool

	Name string

	Decorations     Decorations
	MemberCount     int
	MemberNames     []string
	MemberDecorations []Decorations

	IntWidth  uint32
	IntSigned bool
	FloatWidth uint32

	VectorComponentTypeID uint32
	VectorComponentCount  uint32

	MatrixColumnTypeID uint32
	MatrixColumnCount  uint32

	Array arrayTraits
	Image imageTraits
	ImageTypeID uint32

	// ConstantValue holds the literal for OpConstant (used by array length
	// resolution); only the low 32 bits matter for reflection purposes.
	ConstantValue uint32
	IsConstant    bool
}

// calleeRef is one outgoing call edge, the callee's result id and (once
// resolved) its index into the module's function table.
type calleeRef struct {
	calleeID uint32
	function int
}

// Function is S3's per-function record: the set of functions it calls and
// the set of variable ids its body accesses.
type Function struct {
	ID       uint32
	callees  []calleeRef
	Accessed []uint32
}

// NumericTraits describes the scalar/vector/matrix shape of a type.
type NumericTraits struct {
	ScalarWidth      uint32
	ScalarSigned     bool
	VectorComponents uint32
	MatrixColumns    uint32
	MatrixRows       uint32
	MatrixStride     uint32
	MatrixColMajor   bool
}

// ImageTraits mirrors imageTraits but is exported as part of TypeDescription.
type ImageTraits struct {
	Dim         spirv.Dim
	Depth       uint32
	Arrayed     uint32
	MS          uint32
	Sampled     uint32
	ImageFormat spirv.ImageFormat
}

// ArrayTraits describes array dimensions and element stride on a TypeDescription.
type ArrayTraits struct {
	Dims   []uint32
	Stride uint32
}

// TypeDescription is the recursive type record built by S5.
type TypeDescription struct {
	ID              uint32
	Op              spirv.OpCode
	StorageClass    spirv.StorageClass
	TypeFlags       TypeFlags
	DecorationFlags DecorationFlags
	Numeric         NumericTraits
	Image           ImageTraits
	Array           ArrayTraits
	Members         []*TypeDescription
	TypeName        string
	StructMemberName string
	MemberOffset    uint32
}

func newTypeDescription() *TypeDescription {
	return &TypeDescription{ID: sentinelU32}
}

// DescriptorType enumerates the kind of descriptor a binding represents.
type DescriptorType uint8

const (
	DescriptorTypeSampler DescriptorType = iota
	DescriptorTypeCombinedImageSampler
	DescriptorTypeSampledImage
	DescriptorTypeStorageImage
	DescriptorTypeUniformTexelBuffer
	DescriptorTypeStorageTexelBuffer
	DescriptorTypeUniformBuffer
	DescriptorTypeStorageBuffer
	DescriptorTypeInputAttachment
)

func (t DescriptorType) String() string {
	switch t {
	case DescriptorTypeSampler:
		return "Sampler"
	case DescriptorTypeCombinedImageSampler:
		return "CombinedImageSampler"
	case DescriptorTypeSampledImage:
		return "SampledImage"
	case DescriptorTypeStorageImage:
		return "StorageImage"
	case DescriptorTypeUniformTexelBuffer:
		return "UniformTexelBuffer"
	case DescriptorTypeStorageTexelBuffer:
		return "StorageTexelBuffer"
	case DescriptorTypeUniformBuffer:
		return "UniformBuffer"
	case DescriptorTypeStorageBuffer:
		return "StorageBuffer"
	case DescriptorTypeInputAttachment:
		return "InputAttachment"
	default:
		return "Unknown"
	}
}

// ResourceType is a D3D-style bitset of the view kind(s) a descriptor maps to.
type ResourceType uint8

const (
	ResourceTypeSampler ResourceType = 1 << iota
	ResourceTypeShaderResourceView
	ResourceTypeUnorderedAccessView
	ResourceTypeConstantBufferView
)

// WordOffsets records where a descriptor binding's set/binding decoration
// values live in the original word stream, for in-place rewriting.
type WordOffsets struct {
	BindingWord uint32
	SetWord     uint32
}

// DescriptorBinding describes one shader-visible resource slot.
type DescriptorBinding struct {
	SPIRVID              uint32
	Name                 string
	DescriptorType        DescriptorType
	ResourceType          ResourceType
	Binding               uint32
	Set                   uint32
	InputAttachmentIndex  uint32
	Count                 uint32
	Accessed              bool
	UAVCounterID          uint32
	UAVCounterIndex       int
	TypeIndex             int
	Block                 *BlockVariable
	Image                 ImageTraits
	Array                 ArrayTraits
	WordOffsets           WordOffsets
}

// BlockVariable is one member (or the root) of a uniform/storage/push-constant
// block, after layout computation.
type BlockVariable struct {
	Name            string
	Offset          uint32
	AbsoluteOffset  uint32
	Size            uint32
	PaddedSize      uint32
	DecorationFlags DecorationFlags
	Numeric         NumericTraits
	Array           ArrayTraits
	Members         []*BlockVariable
	TypeDescription *TypeDescription
	SPIRVID         uint32
}

// ShaderStage identifies the pipeline stage an entry point runs in.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageTessellationControl
	ShaderStageTessellationEvaluation
	ShaderStageGeometry
	ShaderStageFragment
	ShaderStageCompute
	ShaderStageKernel
	ShaderStageRayTracingNV
	ShaderStageUnknown
)

// InterfaceVariable is a per-stage input or output variable.
type InterfaceVariable struct {
	SPIRVID         uint32
	Name            string
	Location        uint32
	HasLocation     bool
	LocationWordOffset uint32
	BuiltIn         spirv.BuiltIn
	HasBuiltIn      bool
	Semantic        string
	TypeDescription *TypeDescription
	Members         []*InterfaceVariable
}

// EntryPoint is one OpEntryPoint's reflected record.
type EntryPoint struct {
	Name                string
	ID                  uint32
	SPIRVExecutionModel spirv.ExecutionModel
	ShaderStage         ShaderStage
	InputVariables      []*InterfaceVariable
	OutputVariables     []*InterfaceVariable
	DescriptorSets      []uint32
	UsedUniforms        []uint32
	UsedPushConstants   []uint32
}

// Generator identifies the tool that produced a SPIR-V module, decoded from
// the high 16 bits of the generator magic word.
type Generator uint32

const (
	GeneratorUnknown Generator = 0
	GeneratorKhronosGlslang Generator = 8
	GeneratorGoogleShaderc Generator = 13
	GeneratorGoogleSpiregg Generator = 14
	GeneratorGoogleRspirv Generator = 16
	GeneratorMesa Generator = 18
)

// ShaderModule is the complete reflected description of a SPIR-V module. It
// owns every TypeDescription, DescriptorBinding, BlockVariable, and
// EntryPoint produced during reflection; callers hold it by pointer and
// query it directly. Only DescriptorBinding.TypeIndex is an index into
// TypeDescriptions; BlockVariable, InterfaceVariable and
// TypeDescription.Members refer to types through *TypeDescription pointers.
// TypeDescriptions lists only the types of descriptor bindings, not every
// type in the module.
type ShaderModule struct {
	Generator             Generator
	SourceLanguage        spirv.SourceLanguage
	SourceLanguageVersion uint32
	SourceFile            string

	TypeDescriptions   []*TypeDescription
	DescriptorBindings []*DescriptorBinding
	PushConstantBlocks []*BlockVariable
	EntryPoints        []*EntryPoint
}
