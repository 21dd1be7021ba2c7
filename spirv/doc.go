// Package spirv provides the SPIR-V opcode, decoration, execution-model,
// and image-format vocabulary consumed by the parent reflection engine.
//
// SPIR-V is the standard intermediate language for GPU shaders, used by
// Vulkan, OpenCL, and other APIs.
//
// # Contents
//
// This package holds only the constant tables a reflector needs to make
// sense of a raw word stream:
//
//   - OpCode: every opcode the reflection engine's node scanner dispatches
//     on, plus several it intentionally ignores
//   - Decoration: OpDecorate/OpMemberDecorate payload kinds, including the
//     GOOGLE HLSL-interop extensions (HlslCounterBufferGOOGLE,
//     HlslSemanticGOOGLE)
//   - StorageClass, ExecutionModel, Dim, ImageFormat, BuiltIn: the
//     remaining enums referenced by descriptor and entry-point reflection
//
// None of these types carry behavior; they exist so the reflection engine
// can compare a raw uint32 against a named constant instead of a magic
// number.
//
// # SPIR-V module layout
//
// SPIR-V modules consist of:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities (required features)
//   - Extensions (optional extensions)
//   - Extended instruction imports (GLSL.std.450, etc.)
//   - Memory model (addressing and memory model)
//   - Entry points (shader entry functions)
//   - Execution modes (shader configuration)
//   - Debug information (names, source info)
//   - Annotations (decorations)
//   - Types and constants
//   - Global variables
//   - Functions (code)
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
