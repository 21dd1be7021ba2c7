package spirvreflect

import (
	"unicode/utf8"

	"github.com/gogpu/spirvreflect/spirv"
)

const spirvHeaderWords = 5

// parseNodes is S1: validate the header, then split the instruction stream
// into nodes in two passes — first to count them for exact allocation,
// second to populate opcode-specific fields the later stages need.
func (p *parser) parseNodes() error {
	if len(p.words) < spirvHeaderWords || p.words[0] != spirv.MagicNumber {
		return newReflectError(StageNodeScan, ErrKindBadMagic, 0, "not a SPIR-V module (bad magic)")
	}
	p.module.Generator = generatorFromMagic(p.words[2])

	count, err := p.countNodes()
	if err != nil {
		return err
	}
	p.nodes = make([]*Node, 0, count)

	offset := uint32(spirvHeaderWords)
	for offset < uint32(len(p.words)) {
		n, next, err := p.decodeNode(offset)
		if err != nil {
			return err
		}
		p.nodes = append(p.nodes, n)
		// OpName/OpMemberName keep their target id in ResultID for S4, but
		// it is not a result id of theirs and must not shadow the target.
		if n.ResultID != 0 && n.Op != spirv.OpName && n.Op != spirv.OpMemberName {
			p.idIndex[n.ResultID] = len(p.nodes) - 1
		}
		offset = next
	}
	return nil
}

func (p *parser) countNodes() (int, error) {
	count := 0
	offset := uint32(spirvHeaderWords)
	for offset < uint32(len(p.words)) {
		wc := p.words[offset] >> 16
		if wc == 0 || offset+wc > uint32(len(p.words)) {
			return 0, newReflectError(StageNodeScan, ErrKindTruncated, offset, "truncated instruction")
		}
		count++
		offset += wc
	}
	return count, nil
}

// decodeNode decodes the single instruction beginning at offset, returning
// the node and the offset of the next instruction.
func (p *parser) decodeNode(offset uint32) (*Node, uint32, error) {
	header := p.words[offset]
	wordCount := header >> 16
	op := spirv.OpCode(header & 0xFFFF)
	if wordCount == 0 || offset+wordCount > uint32(len(p.words)) {
		return nil, 0, newReflectError(StageNodeScan, ErrKindTruncated, offset, "truncated instruction")
	}

	n := &Node{
		Op:          op,
		WordOffset:  offset,
		WordCount:   wordCount,
		Decorations: newDecorations(),
	}
	truncated := false
	w := func(i uint32) uint32 {
		if i >= wordCount {
			truncated = true
			return 0
		}
		return p.words[offset+i]
	}

	switch op {
	case spirv.OpSource:
		p.module.SourceLanguage = spirv.SourceLanguage(w(1))
		p.module.SourceLanguageVersion = w(2)
		if wordCount > 3 {
			p.sourceFileID = w(3)
			p.hasSourceFileID = true
		}
	case spirv.OpString:
		n.ResultID = w(1)
		s, err := readString(p.words, offset+2)
		if err != nil {
			return nil, 0, err
		}
		n.Name = s
		p.stringCount++
	case spirv.OpEntryPoint:
		p.entryPointCount++
	case spirv.OpName:
		n.ResultID = w(1)
	case spirv.OpMemberName:
		n.ResultID = w(1)
	case spirv.OpTypeVoid:
		n.ResultID, n.IsType = w(1), true
	case spirv.OpTypeBool:
		n.ResultID, n.IsType = w(1), true
	case spirv.OpTypeInt:
		n.ResultID, n.IsType = w(1), true
		n.IntWidth = w(2)
		n.IntSigned = w(3) != 0
	case spirv.OpTypeFloat:
		n.ResultID, n.IsType = w(1), true
		n.FloatWidth = w(2)
	case spirv.OpTypeVector:
		n.ResultID, n.IsType = w(1), true
		n.VectorComponentTypeID = w(2)
		n.VectorComponentCount = w(3)
	case spirv.OpTypeMatrix:
		n.ResultID, n.IsType = w(1), true
		n.MatrixColumnTypeID = w(2)
		n.MatrixColumnCount = w(3)
	case spirv.OpTypeArray:
		n.ResultID, n.IsType = w(1), true
		n.Array.elementTypeID = w(2)
		n.Array.lengthID = w(3)
	case spirv.OpTypeRuntimeArray:
		n.ResultID, n.IsType = w(1), true
		n.Array.elementTypeID = w(2)
	case spirv.OpTypeStruct:
		n.ResultID, n.IsType = w(1), true
		n.MemberCount = int(wordCount) - 2
	case spirv.OpTypePointer:
		n.ResultID, n.IsType = w(1), true
		n.StorageClass, n.HasStorage = spirv.StorageClass(w(2)), true
		n.TypeID = w(3)
	case spirv.OpTypeFunction:
		n.ResultID, n.IsType = w(1), true
	case spirv.OpTypeSampler:
		n.ResultID, n.IsType = w(1), true
	case spirv.OpTypeImage:
		n.ResultID, n.IsType = w(1), true
		n.Image.sampledTypeID = w(2)
		n.Image.dim = spirv.Dim(w(3))
		n.Image.depth = w(4)
		n.Image.arrayed = w(5)
		n.Image.ms = w(6)
		n.Image.sampled = w(7)
		n.Image.imageFormat = spirv.ImageFormat(w(8))
	case spirv.OpTypeSampledImage:
		n.ResultID, n.IsType = w(1), true
		n.ImageTypeID = w(2)
	case spirv.OpConstant:
		n.ResultTypeID = w(1)
		n.ResultID = w(2)
		n.ConstantValue = w(3)
		n.IsConstant = true
	case spirv.OpConstantComposite, spirv.OpConstantNull:
		n.ResultTypeID = w(1)
		n.ResultID = w(2)
		n.IsConstant = true
	case spirv.OpVariable:
		n.ResultTypeID = w(1)
		n.ResultID = w(2)
		n.StorageClass, n.HasStorage = spirv.StorageClass(w(3)), true
	case spirv.OpLoad:
		n.ResultTypeID = w(1)
		n.ResultID = w(2)
	case spirv.OpFunction:
		n.ResultTypeID = w(1)
		n.ResultID = w(2)
	case spirv.OpLabel:
		n.ResultID = w(1)
	}

	if truncated {
		return nil, 0, newReflectError(StageNodeScan, ErrKindTruncated, offset, "instruction word count %d too small for opcode %d operands", wordCount, op)
	}

	return n, offset + wordCount, nil
}

// readString reads a UTF-8 NUL-terminated string packed little-endian into
// the word stream starting at wordOffset, replacing the reference parser's
// unsafe pointer cast with a safe byte-slice reinterpretation. Bytes that
// are not valid UTF-8 are a structural error.
func readString(words []uint32, wordOffset uint32) (string, error) {
	buf := make([]byte, 0, 16)
	for i := wordOffset; i < uint32(len(words)); i++ {
		word := words[i]
		for shift := 0; shift < 32; shift += 8 {
			b := byte(word >> shift)
			if b == 0 {
				if !utf8.Valid(buf) {
					return "", newReflectError(StageNodeScan, ErrKindStructural, wordOffset, "string is not valid UTF-8")
				}
				return string(buf), nil
			}
			buf = append(buf, b)
		}
	}
	return "", newReflectError(StageNodeScan, ErrKindStructural, wordOffset, "unterminated string")
}

// stringWordCount returns the number of words occupied by a NUL-terminated
// string of the given byte length, ceil((len+1)/4).
func stringWordCount(byteLen int) uint32 {
	return uint32((byteLen + 1 + 3) / 4)
}
