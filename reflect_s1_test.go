package spirvreflect

import (
	"testing"

	"github.com/gogpu/spirvreflect/spirv"
)

func reflectErrorKind(t *testing.T, err error) ReflectErrorKind {
	t.Helper()
	re, ok := err.(*ReflectError)
	if !ok {
		t.Fatalf("expected *ReflectError, got %T: %v", err, err)
	}
	return re.Kind
}

func TestParseNodesBadMagic(t *testing.T) {
	words := []uint32{0xdeadbeef, 0x00010300, 0, 1, 0}
	_, err := CreateShaderModule(words)
	if err == nil {
		t.Fatalf("expected an error for bad magic")
	}
	if got := reflectErrorKind(t, err); got != ErrKindBadMagic {
		t.Errorf("expected ErrKindBadMagic, got %v", got)
	}
}

func TestParseNodesHeaderTooShort(t *testing.T) {
	// A stream shorter than the 5-word header is also rejected as bad magic
	// (there's no well-formed "truncated header" case to distinguish it from).
	words := []uint32{spirv.MagicNumber, 0x00010300, 0}
	_, err := CreateShaderModule(words)
	if err == nil {
		t.Fatalf("expected an error for a header shorter than 5 words")
	}
	if got := reflectErrorKind(t, err); got != ErrKindBadMagic {
		t.Errorf("expected ErrKindBadMagic, got %v", got)
	}
}

func TestParseNodesTruncatedInstruction(t *testing.T) {
	// OpTypeVoid claims a word count of 3 but only 1 operand word follows.
	words := assembleModule(2, []uint32{uint32(3)<<16 | uint32(spirv.OpTypeVoid), 1})
	_, err := CreateShaderModule(words)
	if err == nil {
		t.Fatalf("expected an error for a truncated instruction")
	}
	if got := reflectErrorKind(t, err); got != ErrKindTruncated {
		t.Errorf("expected ErrKindTruncated, got %v", got)
	}
}

func TestParseNodesZeroWordCount(t *testing.T) {
	// A word count of zero can never advance the scan and is rejected outright.
	words := assembleModule(1, []uint32{uint32(0)<<16 | uint32(spirv.OpTypeVoid)})
	_, err := CreateShaderModule(words)
	if err == nil {
		t.Fatalf("expected an error for a zero word count instruction")
	}
	if got := reflectErrorKind(t, err); got != ErrKindTruncated {
		t.Errorf("expected ErrKindTruncated, got %v", got)
	}
}

func TestParseNodesUnterminatedString(t *testing.T) {
	// OpString with a result id and bytes that never hit a NUL terminator.
	op := inst(spirv.OpString, 1, 0x41414141, 0x41414141)
	words := assembleModule(2, op)
	_, err := CreateShaderModule(words)
	if err == nil {
		t.Fatalf("expected an error for an unterminated string")
	}
	if got := reflectErrorKind(t, err); got != ErrKindStructural {
		t.Errorf("expected ErrKindStructural, got %v", got)
	}
}

func TestParseNodesHeaderOnlyModuleIsEmpty(t *testing.T) {
	// A module with no instructions beyond the header reflects successfully
	// into an empty ShaderModule rather than erroring.
	words := assembleModule(1)
	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("unexpected error for an empty module: %v", err)
	}
	if len(module.EntryPoints) != 0 || len(module.DescriptorBindings) != 0 {
		t.Errorf("expected an empty module, got %+v", module)
	}
}

func TestParseNodesGeneratorFromMagic(t *testing.T) {
	words := []uint32{spirv.MagicNumber, 0x00010300, uint32(GeneratorGoogleShaderc) << 16, 1, 0}
	module, err := CreateShaderModule(words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if module.Generator != GeneratorGoogleShaderc {
		t.Errorf("expected generator %v, got %v", GeneratorGoogleShaderc, module.Generator)
	}
}
