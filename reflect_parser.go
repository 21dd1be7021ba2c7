package spirvreflect

import "github.com/gogpu/spirvreflect/spirv"

// CreateShaderModule reflects a compiled SPIR-V module and returns its
// complete external interface description. code is a little-endian word
// stream as produced by any conformant SPIR-V generator.
//
// Reflection is synchronous and single-threaded: a call never blocks on
// I/O, never retains a reference to code after returning, and on error
// returns a nil *ShaderModule — the partially built module is never
// published.
func CreateShaderModule(code []uint32) (*ShaderModule, error) {
	p := newParser(code)
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.module, nil
}

// bytesToWords reinterprets a little-endian byte buffer (a .spv file's
// contents) as a word stream, for callers that only have the binary form on
// hand.
func bytesToWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		o := i * 4
		words[i] = uint32(b[o]) | uint32(b[o+1])<<8 | uint32(b[o+2])<<16 | uint32(b[o+3])<<24
	}
	return words
}

// parser is the transient context for one reflection pass. It owns the
// intermediate nodes/strings/functions collected along the way; all of it
// is released once run() returns, leaving only the ShaderModule it built.
type parser struct {
	words []uint32

	nodes   []*Node
	idIndex map[uint32]int // result id -> index into nodes, built once after S1

	sourceFileID    uint32
	hasSourceFileID bool
	stringCount     int // tallied by S1 from OpString, checked by S2
	entryPointCount int // tallied by S1 from OpEntryPoint

	functions     []*Function
	funcIndexByID map[uint32]int

	typeTable map[uint32]*TypeDescription

	module *ShaderModule
}

func newParser(words []uint32) *parser {
	return &parser{
		words:   words,
		idIndex: make(map[uint32]int),
		module:  &ShaderModule{},
	}
}

// findNode resolves a result id to its node via the id→index hash table
// built once after S1, replacing the reference parser's linear find_node
// scan (see SPEC_FULL.md §9).
func (p *parser) findNode(id uint32) (*Node, bool) {
	idx, ok := p.idIndex[id]
	if !ok {
		return nil, false
	}
	return p.nodes[idx], true
}

func (p *parser) requireNode(stage ReflectStage, wordOffset uint32, id uint32) (*Node, error) {
	n, ok := p.findNode(id)
	if !ok {
		return nil, newReflectError(stage, ErrKindUnresolvedID, wordOffset, "unresolved id %%%d", id)
	}
	return n, nil
}

// run executes the full S1..S8 pipeline in order, each stage enriching
// p.module from the previous stages' intermediate state.
func (p *parser) run() error {
	if err := p.parseNodes(); err != nil {
		return err
	}
	if err := p.parseStrings(); err != nil {
		return err
	}
	if err := p.parseFunctions(); err != nil {
		return err
	}
	if err := p.parseMemberCountsAndDecorations(); err != nil {
		return err
	}
	if err := p.parseTypes(); err != nil {
		return err
	}
	if err := p.parseDescriptorBindings(); err != nil {
		return err
	}
	if err := p.parseBlockLayouts(); err != nil {
		return err
	}
	if err := p.parseEntryPoints(); err != nil {
		return err
	}
	return nil
}

func generatorFromMagic(magic uint32) Generator {
	switch Generator(magic >> 16) {
	case GeneratorKhronosGlslang, GeneratorGoogleShaderc, GeneratorGoogleSpiregg, GeneratorGoogleRspirv, GeneratorMesa:
		return Generator(magic >> 16)
	default:
		return GeneratorUnknown
	}
}

// executionModelToStage maps a raw SPIR-V execution model word to the
// reflection engine's ShaderStage, including the NV ray-tracing models
// parsed as raw integers per SPEC_FULL.md §4.8.
func executionModelToStage(model spirv.ExecutionModel) ShaderStage {
	switch model {
	case spirv.ExecutionModelVertex:
		return ShaderStageVertex
	case spirv.ExecutionModelTessellationControl:
		return ShaderStageTessellationControl
	case spirv.ExecutionModelTessellationEvaluation:
		return ShaderStageTessellationEvaluation
	case spirv.ExecutionModelGeometry:
		return ShaderStageGeometry
	case spirv.ExecutionModelFragment:
		return ShaderStageFragment
	case spirv.ExecutionModelGLCompute:
		return ShaderStageCompute
	case spirv.ExecutionModelKernel:
		return ShaderStageKernel
	case spirv.ExecutionModelTaskNV, spirv.ExecutionModelMeshNV,
		spirv.ExecutionModelRayGenerationNV, spirv.ExecutionModelIntersectionNV,
		spirv.ExecutionModelAnyHitNV, spirv.ExecutionModelClosestHitNV,
		spirv.ExecutionModelMissNV, spirv.ExecutionModelCallableNV:
		return ShaderStageRayTracingNV
	default:
		return ShaderStageUnknown
	}
}
