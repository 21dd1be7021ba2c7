package spirvreflect

import (
	"testing"

	"github.com/gogpu/spirvreflect/spirv"
)

// TestBlockLayoutNonWritableDowngradesResourceType builds a BufferBlock
// storage buffer with a single NonWritable member by hand, exercising the
// §4.6 point 5 downgrade path that the scenario fixtures in reflect_test.go
// never reach, since none of them marks a storage buffer member NonWritable.
func TestBlockLayoutNonWritableDowngradesResourceType(t *testing.T) {
	// id 1: OpTypeFloat width=32
	tFloat := inst(spirv.OpTypeFloat, 1, 32)
	// id 2: OpTypeStruct { float }
	tStruct := inst(spirv.OpTypeStruct, 2, 1)
	// id 3: OpTypePointer storage=Uniform base=2 (pre-1.3 BufferBlock idiom)
	tPtr := inst(spirv.OpTypePointer, 3, uint32(spirv.StorageClassUniform), 2)
	// id 4: OpVariable resultType=3 resultID=4 storage=Uniform
	vBuf := inst(spirv.OpVariable, 3, 4, uint32(spirv.StorageClassUniform))

	dBufferBlock := inst(spirv.OpDecorate, 2, uint32(spirv.DecorationBufferBlock))
	dMemberOffset := inst(spirv.OpMemberDecorate, 2, 0, uint32(spirv.DecorationOffset), 0)
	dMemberNonWritable := inst(spirv.OpMemberDecorate, 2, 0, uint32(spirv.DecorationNonWritable))
	dSet := inst(spirv.OpDecorate, 4, uint32(spirv.DecorationDescriptorSet), 0)
	dBinding := inst(spirv.OpDecorate, 4, uint32(spirv.DecorationBinding), 0)

	words := assembleModule(5, tFloat, tStruct, tPtr, vBuf,
		dBufferBlock, dMemberOffset, dMemberNonWritable, dSet, dBinding)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}
	if len(module.DescriptorBindings) != 1 {
		t.Fatalf("expected 1 descriptor binding, got %d", len(module.DescriptorBindings))
	}
	binding := module.DescriptorBindings[0]
	if binding.DescriptorType != DescriptorTypeStorageBuffer {
		t.Fatalf("expected StorageBuffer, got %v", binding.DescriptorType)
	}
	if binding.ResourceType != ResourceTypeShaderResourceView {
		t.Errorf("expected a NonWritable storage buffer to downgrade to SHADER_RESOURCE_VIEW, got %v", binding.ResourceType)
	}
	if binding.Block.Size != 0 || binding.Block.PaddedSize != 0 {
		t.Errorf("expected storage buffer block size/padded_size to be forced to 0, got size=%d padded=%d",
			binding.Block.Size, binding.Block.PaddedSize)
	}
}

// TestBlockLayoutFinalMemberPadsTo16ByteBoundary builds a two-member uniform
// block whose last member ends on a non-16-byte boundary, exercising the
// §4.7 final-member rounding rule with a nontrivial (non-zero) remainder.
func TestBlockLayoutFinalMemberPadsTo16ByteBoundary(t *testing.T) {
	// id 1: OpTypeFloat width=32
	tFloat := inst(spirv.OpTypeFloat, 1, 32)
	// id 2: OpTypeVector float x4 -> vec4
	tVec4 := inst(spirv.OpTypeVector, 2, 1, 4)
	// id 3: OpTypeStruct { vec4, float } -> member0 at 0 (size 16), member1 at 16 (size 4)
	tStruct := inst(spirv.OpTypeStruct, 3, 2, 1)
	// id 4: OpTypePointer storage=Uniform base=3
	tPtr := inst(spirv.OpTypePointer, 4, uint32(spirv.StorageClassUniform), 3)
	// id 5: OpVariable resultType=4 resultID=5 storage=Uniform
	vBuf := inst(spirv.OpVariable, 4, 5, uint32(spirv.StorageClassUniform))

	dBlock := inst(spirv.OpDecorate, 3, uint32(spirv.DecorationBlock))
	dMember0Offset := inst(spirv.OpMemberDecorate, 3, 0, uint32(spirv.DecorationOffset), 0)
	dMember1Offset := inst(spirv.OpMemberDecorate, 3, 1, uint32(spirv.DecorationOffset), 16)
	dSet := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationDescriptorSet), 0)
	dBinding := inst(spirv.OpDecorate, 5, uint32(spirv.DecorationBinding), 0)

	words := assembleModule(6, tFloat, tVec4, tStruct, tPtr, vBuf,
		dBlock, dMember0Offset, dMember1Offset, dSet, dBinding)

	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}
	if len(module.DescriptorBindings) != 1 {
		t.Fatalf("expected 1 descriptor binding, got %d", len(module.DescriptorBindings))
	}
	block := module.DescriptorBindings[0].Block
	if len(block.Members) != 2 {
		t.Fatalf("expected 2 block members, got %d", len(block.Members))
	}
	last := block.Members[1]
	if last.Offset != 16 || last.Size != 4 {
		t.Fatalf("expected last member offset=16 size=4, got offset=%d size=%d", last.Offset, last.Size)
	}
	if last.PaddedSize != 16 {
		t.Errorf("expected last member padded_size=16 (round_up(20,16)-16), got %d", last.PaddedSize)
	}
	if block.Size != 32 || block.PaddedSize != 32 {
		t.Errorf("expected block size/padded_size=32, got size=%d padded=%d", block.Size, block.PaddedSize)
	}
}
