package spirvreflect

import "github.com/gogpu/spirvreflect/spirv"

// parseTypes is S5's stage entry point. Type construction itself is lazy —
// buildType is invoked on demand by S6 (descriptor types) and S8 (interface
// variable types) — so this stage only prepares the memo table every later
// buildType call dedups against, keyed by result id.
func (p *parser) parseTypes() error {
	p.typeTable = make(map[uint32]*TypeDescription)
	return nil
}

// buildType recursively constructs the TypeDescription for typeID, following
// scalar→vector→matrix→array→struct→pointer chains (SPEC_FULL.md §4.5).
// memberDec, when non-nil, is the containing struct member's own decoration
// record: its ArrayStride/MatrixStride/RowMajor/ColMajor override whatever
// the element type node itself carries, since SPIR-V attaches layout
// decorations to the member, not the type.
func (p *parser) buildType(typeID uint32, memberDec *Decorations) (*TypeDescription, error) {
	if memberDec == nil {
		if cached, ok := p.typeTable[typeID]; ok {
			return cached, nil
		}
	}

	n, err := p.requireNode(StageTypes, 0, typeID)
	if err != nil {
		return nil, err
	}

	td := newTypeDescription()
	td.ID = typeID
	td.Op = n.Op
	if n.Name != "" {
		td.TypeName = n.Name
	}
	td.DecorationFlags |= n.Decorations.Flags

	switch n.Op {
	case spirv.OpTypeVoid:
		td.TypeFlags |= TypeFlagVoid
	case spirv.OpTypeBool:
		td.TypeFlags |= TypeFlagBool
	case spirv.OpTypeSampler:
		td.TypeFlags |= TypeFlagExternalSampler
	case spirv.OpTypeInt:
		td.TypeFlags |= TypeFlagInt
		td.Numeric.ScalarWidth = n.IntWidth
		td.Numeric.ScalarSigned = n.IntSigned
	case spirv.OpTypeFloat:
		td.TypeFlags |= TypeFlagFloat
		td.Numeric.ScalarWidth = n.FloatWidth
	case spirv.OpTypeVector:
		td.TypeFlags |= TypeFlagVector
		td.Numeric.VectorComponents = n.VectorComponentCount
		comp, err := p.buildType(n.VectorComponentTypeID, memberDec)
		if err != nil {
			return nil, err
		}
		td.TypeFlags |= comp.TypeFlags
		td.Numeric.ScalarWidth = comp.Numeric.ScalarWidth
		td.Numeric.ScalarSigned = comp.Numeric.ScalarSigned
	case spirv.OpTypeMatrix:
		td.TypeFlags |= TypeFlagMatrix
		td.Numeric.MatrixColumns = n.MatrixColumnCount
		col, err := p.buildType(n.MatrixColumnTypeID, memberDec)
		if err != nil {
			return nil, err
		}
		td.TypeFlags |= col.TypeFlags
		td.Numeric.ScalarWidth = col.Numeric.ScalarWidth
		td.Numeric.VectorComponents = col.Numeric.VectorComponents
		td.Numeric.MatrixRows = col.Numeric.VectorComponents
		if memberDec != nil {
			td.Numeric.MatrixStride = memberDec.MatrixStride.Value
			td.Numeric.MatrixColMajor = memberDec.Flags&DecorationFlagColumnMajor != 0
			td.DecorationFlags |= memberDec.Flags & (DecorationFlagRowMajor | DecorationFlagColumnMajor)
		}
	case spirv.OpTypeImage:
		td.TypeFlags |= TypeFlagExternalImage
		td.Image = ImageTraits{
			Dim: n.Image.dim, Depth: n.Image.depth, Arrayed: n.Image.arrayed,
			MS: n.Image.ms, Sampled: n.Image.sampled, ImageFormat: n.Image.imageFormat,
		}
	case spirv.OpTypeSampledImage:
		td.TypeFlags |= TypeFlagExternalSampledImage
		img, err := p.buildType(n.ImageTypeID, memberDec)
		if err != nil {
			return nil, err
		}
		td.TypeFlags |= img.TypeFlags
		td.Image = img.Image
	case spirv.OpTypeArray:
		td.TypeFlags |= TypeFlagArray
		stride := n.Decorations.ArrayStride.Value
		if memberDec != nil && memberDec.ArrayStride.isSet() {
			stride = memberDec.ArrayStride.Value
		}
		td.Array.Stride = stride
		length, err := p.constantValue(n.Array.lengthID)
		if err != nil {
			return nil, err
		}
		td.Array.Dims = append(td.Array.Dims, length)
		elem, err := p.buildType(n.Array.elementTypeID, nil)
		if err != nil {
			return nil, err
		}
		td.Members = append(td.Members, elem)
	case spirv.OpTypeRuntimeArray:
		td.TypeFlags |= TypeFlagArray
		stride := n.Decorations.ArrayStride.Value
		if memberDec != nil && memberDec.ArrayStride.isSet() {
			stride = memberDec.ArrayStride.Value
		}
		td.Array.Stride = stride
		elem, err := p.buildType(n.Array.elementTypeID, nil)
		if err != nil {
			return nil, err
		}
		td.Members = append(td.Members, elem)
	case spirv.OpTypeStruct:
		td.TypeFlags |= TypeFlagStruct | TypeFlagExternalBlock
		memberIDs := structMemberIDs(p.words, n.WordOffset, n.WordCount)
		for i, mid := range memberIDs {
			var memberDecoration *Decorations
			if i < len(n.MemberDecorations) {
				memberDecoration = &n.MemberDecorations[i]
			}
			member, err := p.buildType(mid, memberDecoration)
			if err != nil {
				return nil, err
			}
			if memberDecoration != nil {
				member.DecorationFlags |= memberDecoration.Flags
				if memberDecoration.Offset.isSet() {
					member.MemberOffset = memberDecoration.Offset.Value
				}
				if i < len(n.MemberNames) {
					member.StructMemberName = n.MemberNames[i]
				}
			}
			td.Members = append(td.Members, member)
			td.DecorationFlags |= member.DecorationFlags
		}
	case spirv.OpTypePointer:
		pointee, err := p.buildType(n.TypeID, memberDec)
		if err != nil {
			return nil, err
		}
		td.StorageClass = n.StorageClass
		td.TypeFlags = pointee.TypeFlags
		td.DecorationFlags |= pointee.DecorationFlags
		td.Numeric = pointee.Numeric
		td.Image = pointee.Image
		td.Array = pointee.Array
		td.Members = pointee.Members
		if td.TypeName == "" {
			td.TypeName = pointee.TypeName
		}
	}

	if memberDec == nil {
		p.typeTable[typeID] = td
	}
	return td, nil
}

// constantValue resolves an OpTypeArray length operand to its literal value
// by looking up the constant node it references.
func (p *parser) constantValue(constantID uint32) (uint32, error) {
	n, err := p.requireNode(StageTypes, 0, constantID)
	if err != nil {
		return 0, err
	}
	return n.ConstantValue, nil
}

// structMemberIDs returns the member type ids of an OpTypeStruct instruction,
// the operands following its own result id.
func structMemberIDs(words []uint32, offset, wordCount uint32) []uint32 {
	ids := make([]uint32, 0, wordCount-2)
	for i := offset + 2; i < offset+wordCount; i++ {
		ids = append(ids, words[i])
	}
	return ids
}
