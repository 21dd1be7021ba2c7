package spirvreflect

import (
	"reflect"
	"sort"
	"testing"

	"github.com/gogpu/spirvreflect/spirv"
)

// ---------------------------------------------------------------------------
// Raw word-stream helpers. Every fixture below is hand-assembled rather than
// compiled from source, so each test exercises exactly the opcodes and
// decorations its scenario needs and nothing else.
// ---------------------------------------------------------------------------

// inst assembles one instruction's words from its opcode and operands,
// computing the word-count field the way a real SPIR-V emitter does.
func inst(op spirv.OpCode, operands ...uint32) []uint32 {
	words := make([]uint32, 0, len(operands)+1)
	header := uint32(len(operands)+1)<<16 | uint32(op)
	words = append(words, header)
	words = append(words, operands...)
	return words
}

// packString encodes a NUL-terminated, word-padded literal string the way
// SPIR-V embeds names in OpEntryPoint/OpName/OpSource operands.
func packString(s string) []uint32 {
	b := append([]byte(s), 0)
	n := (len(b) + 3) / 4
	words := make([]uint32, n)
	for i, c := range b {
		words[i/4] |= uint32(c) << uint((i%4)*8)
	}
	return words
}

// assembleModule concatenates a 5-word module header with the given
// instructions, in the order given — the caller is responsible for section
// ordering since nothing here enforces it (hand-built fixtures exercise the
// parser, not a well-formed-module generator).
func assembleModule(bound uint32, instructions ...[]uint32) []uint32 {
	words := []uint32{spirv.MagicNumber, spirv.VersionWord(spirv.Version1_3), 0, bound, 0}
	for _, in := range instructions {
		words = append(words, in...)
	}
	return words
}

func entryPointInst(model spirv.ExecutionModel, funcID uint32, name string, ifaces ...uint32) []uint32 {
	operands := []uint32{uint32(model), funcID}
	operands = append(operands, packString(name)...)
	operands = append(operands, ifaces...)
	return inst(spirv.OpEntryPoint, operands...)
}

// uniformBlockFixture assembles a single-member uniform buffer block
// { vec4<f32> } bound at (set, binding), the shape shared by several
// scenarios below.
func uniformBlockFixture(set, binding uint32) (words []uint32, varID uint32) {
	tFloat := inst(spirv.OpTypeFloat, 1, 32)
	tVec4 := inst(spirv.OpTypeVector, 2, 1, 4)
	tStruct := inst(spirv.OpTypeStruct, 3, 2)
	tPtr := inst(spirv.OpTypePointer, 4, uint32(spirv.StorageClassUniform), 3)
	vBuf := inst(spirv.OpVariable, 4, 5, uint32(spirv.StorageClassUniform))

	dBlock := inst(spirv.OpDecorate, 3, uint32(spirv.DecorationBlock))
	dMemberOffset := inst(spirv.OpMemberDecorate, 3, 0, uint32(spirv.DecorationOffset), 0)
	dSet := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationDescriptorSet), set)
	dBinding := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationBinding), binding)

	return assembleModule(6, tFloat, tVec4, tStruct, tPtr, vBuf,
		dBlock, dMemberOffset, dSet, dBinding), 5
}

// storageRuntimeArrayFixture assembles a storage buffer block
// { u32 head; u32 data[]; } bound at (set, binding), the legacy
// Uniform+BufferBlock idiom.
func storageRuntimeArrayFixture(set, binding uint32) []uint32 {
	tUint := inst(spirv.OpTypeInt, 1, 32, 0)
	tRTA := inst(spirv.OpTypeRuntimeArray, 2, 1)
	tStruct := inst(spirv.OpTypeStruct, 3, 1, 2)
	tPtr := inst(spirv.OpTypePointer, 4, uint32(spirv.StorageClassUniform), 3)
	vBuf := inst(spirv.OpVariable, 4, 5, uint32(spirv.StorageClassUniform))

	dBufferBlock := inst(spirv.OpDecorate, 3, uint32(spirv.DecorationBufferBlock))
	dMember0Offset := inst(spirv.OpMemberDecorate, 3, 0, uint32(spirv.DecorationOffset), 0)
	dMember1Offset := inst(spirv.OpMemberDecorate, 3, 1, uint32(spirv.DecorationOffset), 4)
	dSet := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationDescriptorSet), set)
	dBinding := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationBinding), binding)

	return assembleModule(6, tUint, tRTA, tStruct, tPtr, vBuf,
		dBufferBlock, dMember0Offset, dMember1Offset, dSet, dBinding)
}

// twoEntryPointsDisjointFixture assembles two uniform blocks A, B each read
// by its own entry point, one vertex and one fragment (vs_a reads only a,
// fs_b reads only b).
func twoEntryPointsDisjointFixture() []uint32 {
	tFloat := inst(spirv.OpTypeFloat, 1, 32)
	tStructA := inst(spirv.OpTypeStruct, 2, 1)
	tStructB := inst(spirv.OpTypeStruct, 3, 1)
	tPtrA := inst(spirv.OpTypePointer, 4, uint32(spirv.StorageClassUniform), 2)
	vA := inst(spirv.OpVariable, 4, 5, uint32(spirv.StorageClassUniform))
	tPtrB := inst(spirv.OpTypePointer, 6, uint32(spirv.StorageClassUniform), 3)
	vB := inst(spirv.OpVariable, 6, 7, uint32(spirv.StorageClassUniform))

	dBlockA := inst(spirv.OpDecorate, 2, uint32(spirv.DecorationBlock))
	dMemberA := inst(spirv.OpMemberDecorate, 2, 0, uint32(spirv.DecorationOffset), 0)
	dBlockB := inst(spirv.OpDecorate, 3, uint32(spirv.DecorationBlock))
	dMemberB := inst(spirv.OpMemberDecorate, 3, 0, uint32(spirv.DecorationOffset), 0)
	dSetA := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationDescriptorSet), 0)
	dBindingA := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationBinding), 0)
	dSetB := inst(spirv.OpDecorate, 7, uint32(spirv.DecorationDescriptorSet), 0)
	dBindingB := inst(spirv.OpDecorate, 7, uint32(spirv.DecorationBinding), 1)

	tVoid := inst(spirv.OpTypeVoid, 8)
	tFnType := inst(spirv.OpTypeFunction, 9, 8)

	fnA := inst(spirv.OpFunction, 8, 20, 0, 9)
	labelA := inst(spirv.OpLabel, 21)
	loadA := inst(spirv.OpLoad, 1, 22, 5)
	retA := inst(spirv.OpReturn)
	endA := inst(spirv.OpFunctionEnd)

	fnB := inst(spirv.OpFunction, 8, 30, 0, 9)
	labelB := inst(spirv.OpLabel, 31)
	loadB := inst(spirv.OpLoad, 1, 32, 7)
	retB := inst(spirv.OpReturn)
	endB := inst(spirv.OpFunctionEnd)

	epA := entryPointInst(spirv.ExecutionModelVertex, 20, "vs_a")
	epB := entryPointInst(spirv.ExecutionModelFragment, 30, "fs_b")

	return assembleModule(33,
		tFloat, tStructA, tStructB, tPtrA, vA, tPtrB, vB,
		dBlockA, dMemberA, dBlockB, dMemberB, dSetA, dBindingA, dSetB, dBindingB,
		tVoid, tFnType, epA, epB,
		fnA, labelA, loadA, retA, endA,
		fnB, labelB, loadB, retB, endB,
	)
}

// ---------------------------------------------------------------------------
// Scenario 1: trivial fragment shader — one entry point, zero bindings
// ---------------------------------------------------------------------------

func TestReflectTrivialFragmentShader(t *testing.T) {
	ep := entryPointInst(spirv.ExecutionModelFragment, 10, "main")
	words := assembleModule(11, ep)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	if len(module.EntryPoints) != 1 {
		t.Fatalf("expected 1 entry point, got %d", len(module.EntryPoints))
	}
	epOut := module.EntryPoints[0]
	if epOut.ShaderStage != ShaderStageFragment {
		t.Errorf("expected fragment stage, got %v", epOut.ShaderStage)
	}
	if len(module.DescriptorBindings) != 0 {
		t.Errorf("expected 0 descriptor bindings, got %d", len(module.DescriptorBindings))
	}
	if len(module.PushConstantBlocks) != 0 {
		t.Errorf("expected 0 push constant blocks, got %d", len(module.PushConstantBlocks))
	}
}

// ---------------------------------------------------------------------------
// Scenario 2: single uniform buffer { vec4 color; } -> set=0, binding=0,
// UniformBuffer, block size 16, member offset 0
// ---------------------------------------------------------------------------

func TestReflectSingleUniformBuffer(t *testing.T) {
	words, _ := uniformBlockFixture(0, 0)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	if len(module.DescriptorBindings) != 1 {
		t.Fatalf("expected 1 descriptor binding, got %d", len(module.DescriptorBindings))
	}
	binding := module.DescriptorBindings[0]
	if binding.Set != 0 || binding.Binding != 0 {
		t.Errorf("expected set=0 binding=0, got set=%d binding=%d", binding.Set, binding.Binding)
	}
	if binding.DescriptorType != DescriptorTypeUniformBuffer {
		t.Errorf("expected UniformBuffer, got %v", binding.DescriptorType)
	}
	if binding.Block == nil {
		t.Fatalf("expected a block variable")
	}
	if binding.Block.Size != 16 || binding.Block.PaddedSize != 16 {
		t.Errorf("expected block size=16 padded=16, got size=%d padded=%d", binding.Block.Size, binding.Block.PaddedSize)
	}
	if len(binding.Block.Members) != 1 {
		t.Fatalf("expected 1 block member, got %d", len(binding.Block.Members))
	}
	if binding.Block.Members[0].Offset != 0 {
		t.Errorf("expected member offset 0, got %d", binding.Block.Members[0].Offset)
	}
	if binding.Block.Members[0].Size != 16 {
		t.Errorf("expected member size 16, got %d", binding.Block.Members[0].Size)
	}
}

// ---------------------------------------------------------------------------
// Scenario 3: storage buffer with runtime array { head: u32, data: array<u32> }
// -> StorageBuffer, block size 0 (runtime-sized tail), member offsets 0/4
// ---------------------------------------------------------------------------

func TestReflectStorageBufferRuntimeArray(t *testing.T) {
	words := storageRuntimeArrayFixture(0, 1)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	if len(module.DescriptorBindings) != 1 {
		t.Fatalf("expected 1 descriptor binding, got %d", len(module.DescriptorBindings))
	}
	binding := module.DescriptorBindings[0]
	if binding.Set != 0 || binding.Binding != 1 {
		t.Errorf("expected set=0 binding=1, got set=%d binding=%d", binding.Set, binding.Binding)
	}
	if binding.DescriptorType != DescriptorTypeStorageBuffer {
		t.Errorf("expected StorageBuffer, got %v", binding.DescriptorType)
	}
	if binding.Block == nil {
		t.Fatalf("expected a block variable")
	}
	if binding.Block.Size != 0 || binding.Block.PaddedSize != 0 {
		t.Errorf("expected block size=0 padded=0 (runtime-sized tail), got size=%d padded=%d", binding.Block.Size, binding.Block.PaddedSize)
	}
	if len(binding.Block.Members) != 2 {
		t.Fatalf("expected 2 block members, got %d", len(binding.Block.Members))
	}
	if binding.Block.Members[0].Offset != 0 {
		t.Errorf("expected head offset 0, got %d", binding.Block.Members[0].Offset)
	}
	if binding.Block.Members[1].Offset != 4 {
		t.Errorf("expected data offset 4, got %d", binding.Block.Members[1].Offset)
	}
	if binding.Block.Members[1].PaddedSize != binding.Block.Members[1].Size {
		t.Errorf("expected runtime array member's padded size to equal its size, got size=%d padded=%d",
			binding.Block.Members[1].Size, binding.Block.Members[1].PaddedSize)
	}
}

// ---------------------------------------------------------------------------
// Scenario 4: combined image sampler array (uniform sampler2D tex[4])
// ---------------------------------------------------------------------------

func TestReflectCombinedImageSamplerArray(t *testing.T) {
	// id 1: OpTypeFloat width=32
	tFloat := inst(spirv.OpTypeFloat, 1, 32)
	// id 2: OpTypeImage sampledType=1 dim=2D depth=0 arrayed=0 ms=0 sampled=1 format=Unknown
	tImage := inst(spirv.OpTypeImage, 2, 1, uint32(spirv.Dim2D), 0, 0, 0, 1, uint32(spirv.ImageFormatUnknown))
	// id 3: OpTypeSampledImage imageType=2
	tSampledImage := inst(spirv.OpTypeSampledImage, 3, 2)
	// id 4: OpTypeInt width=32 signed=0
	tUint := inst(spirv.OpTypeInt, 4, 32, 0)
	// id 5: OpConstant type=4 result=5 value=4 (array length)
	cLen := inst(spirv.OpConstant, 4, 5, 4)
	// id 6: OpTypeArray elem=3 length=5 -> array of 4 sampled images
	tArray := inst(spirv.OpTypeArray, 6, 3, 5)
	// id 7: OpTypePointer storage=UniformConstant base=6
	tPtr := inst(spirv.OpTypePointer, 7, uint32(spirv.StorageClassUniformConstant), 6)
	// id 8: OpVariable resultType=7 resultID=8 storage=UniformConstant
	vTex := inst(spirv.OpVariable, 7, 8, uint32(spirv.StorageClassUniformConstant))

	dSet := inst(spirv.OpDecorate, 8, uint32(spirv.DecorationDescriptorSet), 0)
	dBinding := inst(spirv.OpDecorate, 8, uint32(spirv.DecorationBinding), 2)

	words := assembleModule(9, tFloat, tImage, tSampledImage, tUint, cLen, tArray, tPtr, vTex, dSet, dBinding)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	if len(module.DescriptorBindings) != 1 {
		t.Fatalf("expected 1 descriptor binding, got %d", len(module.DescriptorBindings))
	}
	binding := module.DescriptorBindings[0]
	if binding.DescriptorType != DescriptorTypeCombinedImageSampler {
		t.Errorf("expected CombinedImageSampler, got %v", binding.DescriptorType)
	}
	wantResourceType := ResourceTypeSampler | ResourceTypeShaderResourceView
	if binding.ResourceType != wantResourceType {
		t.Errorf("expected resource type %v, got %v", wantResourceType, binding.ResourceType)
	}
	if binding.Count != 4 {
		t.Errorf("expected count=4, got %d", binding.Count)
	}
	if binding.Set != 0 || binding.Binding != 2 {
		t.Errorf("expected set=0 binding=2, got set=%d binding=%d", binding.Set, binding.Binding)
	}
}

// ---------------------------------------------------------------------------
// Scenario 5: two entry points with disjoint used resources
// ---------------------------------------------------------------------------

func TestReflectTwoEntryPointsDisjointResources(t *testing.T) {
	words := twoEntryPointsDisjointFixture()

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	if len(module.EntryPoints) != 2 {
		t.Fatalf("expected 2 entry points, got %d", len(module.EntryPoints))
	}
	if len(module.DescriptorBindings) != 2 {
		t.Fatalf("expected 2 descriptor bindings, got %d", len(module.DescriptorBindings))
	}

	for _, binding := range module.DescriptorBindings {
		usedByCount := 0
		for _, ep := range module.EntryPoints {
			for _, id := range ep.UsedUniforms {
				if id == binding.SPIRVID {
					usedByCount++
				}
			}
		}
		if usedByCount != 1 {
			t.Errorf("binding set=%d binding=%d: expected exactly 1 entry point to use it, got %d",
				binding.Set, binding.Binding, usedByCount)
		}
		if !binding.Accessed {
			t.Errorf("binding set=%d binding=%d: expected Accessed=true", binding.Set, binding.Binding)
		}
	}
}

// ---------------------------------------------------------------------------
// Scenario 6: cyclic call graph f -> g -> f
// ---------------------------------------------------------------------------

func TestReflectCyclicCallGraph(t *testing.T) {
	// id 1: OpTypeVoid
	tVoid := inst(spirv.OpTypeVoid, 1)
	// id 2: OpTypeFunction return=1, no params
	tFunc := inst(spirv.OpTypeFunction, 2, 1)

	// function f: id 10
	fF := inst(spirv.OpFunction, 1, 10, 0, 2)
	lF := inst(spirv.OpLabel, 11)
	callG := inst(spirv.OpFunctionCall, 1, 12, 20)
	retF := inst(spirv.OpReturn)
	endF := inst(spirv.OpFunctionEnd)

	// function g: id 20, calls back into f
	fG := inst(spirv.OpFunction, 1, 20, 0, 2)
	lG := inst(spirv.OpLabel, 21)
	callF := inst(spirv.OpFunctionCall, 1, 22, 10)
	retG := inst(spirv.OpReturn)
	endG := inst(spirv.OpFunctionEnd)

	epInst := entryPointInst(spirv.ExecutionModelFragment, 10, "main")

	words := assembleModule(23,
		tVoid, tFunc, epInst,
		fF, lF, callG, retF, endF,
		fG, lG, callF, retG, endG,
	)

	_, err := CreateShaderModule(words)
	if err == nil {
		t.Fatalf("expected a cyclic call graph to be rejected")
	}
	reflectErr, ok := err.(*ReflectError)
	if !ok {
		t.Fatalf("expected *ReflectError, got %T: %v", err, err)
	}
	if reflectErr.Kind != ErrKindCallGraphCycle {
		t.Errorf("expected ErrKindCallGraphCycle, got %v", reflectErr.Kind)
	}
}

// ---------------------------------------------------------------------------
// Invariants (SPEC_FULL.md §8)
// ---------------------------------------------------------------------------

// TestInvariantDescriptorBindingsSortOrder checks that descriptor bindings
// come back sorted by (binding, spirv_id), the order downstream
// pipeline-layout code relies on without re-sorting.
func TestInvariantDescriptorBindingsSortOrder(t *testing.T) {
	words := twoEntryPointsDisjointFixture()
	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	if !sort.SliceIsSorted(module.DescriptorBindings, func(i, j int) bool {
		a, b := module.DescriptorBindings[i], module.DescriptorBindings[j]
		if a.Binding != b.Binding {
			return a.Binding < b.Binding
		}
		return a.SPIRVID < b.SPIRVID
	}) {
		t.Errorf("descriptor bindings not sorted by (binding, spirv_id): %+v", module.DescriptorBindings)
	}
}

// TestInvariantBlockMemberOffsetsMonotonic checks that a block's member
// offsets strictly increase, since layout computation walks members in
// declaration order and accumulates padding forward only.
func TestInvariantBlockMemberOffsetsMonotonic(t *testing.T) {
	words := storageRuntimeArrayFixture(0, 1)
	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}
	binding := module.DescriptorBindings[0]
	members := binding.Block.Members
	for i := 1; i < len(members); i++ {
		if members[i].Offset <= members[i-1].Offset {
			t.Errorf("member %d offset %d not greater than member %d offset %d",
				i, members[i].Offset, i-1, members[i-1].Offset)
		}
	}
}

// TestInvariantUAVCounterReferencesStorageBuffer checks that resolved UAV
// counter buffers always point at a StorageBuffer descriptor, never any
// other descriptor type.
func TestInvariantUAVCounterReferencesStorageBuffer(t *testing.T) {
	words := storageRuntimeArrayFixture(0, 1)
	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}
	for _, binding := range module.DescriptorBindings {
		if binding.UAVCounterIndex < 0 {
			continue
		}
		counter := module.DescriptorBindings[binding.UAVCounterIndex]
		if counter.DescriptorType != DescriptorTypeStorageBuffer {
			t.Errorf("UAV counter for binding set=%d binding=%d points at non-storage-buffer descriptor %v",
				binding.Set, binding.Binding, counter.DescriptorType)
		}
	}
}

// TestInvariantUsedUniformsSubsetOfDescriptorBindings checks each entry
// point's used-uniforms list only ever names ids that actually appear among
// the module's descriptor bindings.
func TestInvariantUsedUniformsSubsetOfDescriptorBindings(t *testing.T) {
	words := twoEntryPointsDisjointFixture()
	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	known := make(map[uint32]bool, len(module.DescriptorBindings))
	for _, b := range module.DescriptorBindings {
		known[b.SPIRVID] = true
	}
	for _, ep := range module.EntryPoints {
		for _, id := range ep.UsedUniforms {
			if !known[id] {
				t.Errorf("entry point %q used_uniforms references unknown id %%%d", ep.Name, id)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Roundtrip / idempotence properties (SPEC_FULL.md §8)
// ---------------------------------------------------------------------------

// TestRoundtripReparseYieldsByteEqualBindings checks that reflecting the same
// word stream twice produces deeply equal descriptor bindings in identical
// order — reflection is a pure function of its input.
func TestRoundtripReparseYieldsByteEqualBindings(t *testing.T) {
	words, _ := uniformBlockFixture(0, 0)

	m1, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("first reflect failed: %v", err)
	}
	m2, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("second reflect failed: %v", err)
	}

	if len(m1.DescriptorBindings) != len(m2.DescriptorBindings) {
		t.Fatalf("binding count differs across reflects: %d vs %d",
			len(m1.DescriptorBindings), len(m2.DescriptorBindings))
	}
	for i := range m1.DescriptorBindings {
		a, b := m1.DescriptorBindings[i], m2.DescriptorBindings[i]
		if !reflect.DeepEqual(a, b) {
			t.Errorf("binding %d differs across reflects: %+v vs %+v", i, a, b)
		}
	}
}

// TestRoundtripWordOffsetMatchesOriginalInput checks that the recorded word
// offset of a binding's decoration values actually points at the binding's
// decoration operand in the original input stream.
func TestRoundtripWordOffsetMatchesOriginalInput(t *testing.T) {
	words, _ := uniformBlockFixture(0, 0)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}
	if len(module.DescriptorBindings) != 1 {
		t.Fatalf("expected 1 descriptor binding, got %d", len(module.DescriptorBindings))
	}
	binding := module.DescriptorBindings[0]

	if off := binding.WordOffsets.SetWord; off == 0 || int(off) >= len(words) || words[off] != binding.Set {
		t.Errorf("recorded set word offset %d does not match original stream (value there = %d, want %d)",
			off, words[off], binding.Set)
	}
	if off := binding.WordOffsets.BindingWord; off == 0 || int(off) >= len(words) || words[off] != binding.Binding {
		t.Errorf("recorded binding word offset %d does not match original stream (value there = %d, want %d)",
			off, words[off], binding.Binding)
	}
}

// TestRoundtripReflectPreservesGroupBindingPairs checks that reflecting a
// hand-assembled module with several distinct (set, binding) pairs recovers
// exactly those pairs, independent of declaration order in the stream.
func TestRoundtripReflectPreservesGroupBindingPairs(t *testing.T) {
	tFloat := inst(spirv.OpTypeFloat, 1, 32)
	tStructA := inst(spirv.OpTypeStruct, 2, 1)
	tStructB := inst(spirv.OpTypeStruct, 3, 1)
	tPtrA := inst(spirv.OpTypePointer, 4, uint32(spirv.StorageClassUniform), 2)
	vA := inst(spirv.OpVariable, 4, 5, uint32(spirv.StorageClassUniform))
	tPtrB := inst(spirv.OpTypePointer, 6, uint32(spirv.StorageClassUniform), 3)
	vB := inst(spirv.OpVariable, 6, 7, uint32(spirv.StorageClassUniform))

	dBlockA := inst(spirv.OpDecorate, 2, uint32(spirv.DecorationBlock))
	dMemberA := inst(spirv.OpMemberDecorate, 2, 0, uint32(spirv.DecorationOffset), 0)
	dBlockB := inst(spirv.OpDecorate, 3, uint32(spirv.DecorationBlock))
	dMemberB := inst(spirv.OpMemberDecorate, 3, 0, uint32(spirv.DecorationOffset), 0)
	dSetA := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationDescriptorSet), 1)
	dBindingA := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationBinding), 3)
	dSetB := inst(spirv.OpDecorate, 7, uint32(spirv.DecorationDescriptorSet), 0)
	dBindingB := inst(spirv.OpDecorate, 7, uint32(spirv.DecorationBinding), 0)

	words := assembleModule(8, tFloat, tStructA, tStructB, tPtrA, vA, tPtrB, vB,
		dBlockA, dMemberA, dBlockB, dMemberB, dSetA, dBindingA, dSetB, dBindingB)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	want := map[[2]uint32]bool{{1, 3}: true, {0, 0}: true}
	got := make(map[[2]uint32]bool, len(module.DescriptorBindings))
	for _, b := range module.DescriptorBindings {
		got[[2]uint32{b.Set, b.Binding}] = true
	}
	for pair := range want {
		if !got[pair] {
			t.Errorf("expected (set=%d, binding=%d) among reflected bindings, got %v", pair[0], pair[1], module.DescriptorBindings)
		}
	}
}
