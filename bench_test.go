package spirvreflect

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/gogpu/spirvreflect/spirv"
)

// buildNDescriptorFixture assembles a module with n independent uniform
// buffer bindings at (set=0, binding=i), each a single vec4<f32> block, to
// benchmark reflection cost as descriptor count scales.
func buildNDescriptorFixture(n int) []uint32 {
	var instructions [][]uint32
	nextID := uint32(1)
	for i := 0; i < n; i++ {
		tFloat := nextID
		instructions = append(instructions, inst(spirv.OpTypeFloat, tFloat, 32))
		nextID++
		tVec4 := nextID
		instructions = append(instructions, inst(spirv.OpTypeVector, tVec4, tFloat, 4))
		nextID++
		tStruct := nextID
		instructions = append(instructions, inst(spirv.OpTypeStruct, tStruct, tVec4))
		nextID++
		tPtr := nextID
		instructions = append(instructions, inst(spirv.OpTypePointer, tPtr, uint32(spirv.StorageClassUniform), tStruct))
		nextID++
		vBuf := nextID
		instructions = append(instructions, inst(spirv.OpVariable, tPtr, vBuf, uint32(spirv.StorageClassUniform)))
		nextID++

		instructions = append(instructions, inst(spirv.OpDecorate, tStruct, uint32(spirv.DecorationBlock)))
		instructions = append(instructions, inst(spirv.OpMemberDecorate, tStruct, 0, uint32(spirv.DecorationOffset), 0))
		instructions = append(instructions, inst(spirv.OpDecorate, vBuf, uint32(spirv.DecorationDescriptorSet), 0))
		instructions = append(instructions, inst(spirv.OpDecorate, vBuf, uint32(spirv.DecorationBinding), uint32(i)))
	}
	return assembleModule(nextID, instructions...)
}

var descriptorCounts = []int{1, 8, 64}

// BenchmarkReflect benchmarks the full SPIR-V reflection pass
// (CreateShaderModule) over modules with varying descriptor counts.
func BenchmarkReflect(b *testing.B) {
	for _, n := range descriptorCounts {
		words := buildNDescriptorFixture(n)

		b.Run(fmt.Sprintf("%d_descriptors", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(words) * 4))
			b.ResetTimer()

			var mod *ShaderModule
			var err error
			for i := 0; i < b.N; i++ {
				mod, err = CreateShaderModule(words)
				if err != nil {
					b.Fatalf("reflect failed: %v", err)
				}
			}
			runtime.KeepAlive(mod)
		})
	}
}

// BenchmarkReflectBlockLayout measures a full CreateShaderModule run (all
// stages, not S7 alone) over a module containing only a single uniform
// buffer with one vec4 member.
func BenchmarkReflectBlockLayout(b *testing.B) {
	words := buildNDescriptorFixture(1)
	b.ReportAllocs()
	b.ResetTimer()

	var mod *ShaderModule
	var err error
	for i := 0; i < b.N; i++ {
		mod, err = CreateShaderModule(words)
		if err != nil {
			b.Fatalf("reflect failed: %v", err)
		}
	}
	runtime.KeepAlive(mod)
}
