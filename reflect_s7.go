package spirvreflect

import "github.com/gogpu/spirvreflect/spirv"

// parseBlockLayouts is S7: for every uniform/storage-buffer descriptor
// binding and every push-constant block found among S1's OpVariable nodes,
// build the BlockVariable tree (name, offset, size, padding) from its
// TypeDescription.
//
// Every top-level StorageBuffer block is treated as though its trailing
// member were a runtime array, and its size/padded_size are forced to 0
// regardless of whether the last member actually is one. This literal
// behavior — not "zero only when a real trailing runtime array is present"
// — is preserved deliberately (SPEC_FULL.md §4.7 / §9 open question 3), as
// is the degenerate empty-dims array case (size = 0 * stride = 0).
func (p *parser) parseBlockLayouts() error {
	for _, db := range p.module.DescriptorBindings {
		if db.DescriptorType != DescriptorTypeUniformBuffer && db.DescriptorType != DescriptorTypeStorageBuffer {
			continue
		}
		td := p.module.TypeDescriptions[db.TypeIndex]
		block := p.buildBlockVariable(td, db.Name, 0, true, false, db.DescriptorType == DescriptorTypeStorageBuffer)
		if db.DescriptorType == DescriptorTypeStorageBuffer {
			block.Size = 0
			block.PaddedSize = 0
			// A storage buffer block with any NonWritable member carries
			// that flag on the block itself (S5 folds member flags into
			// the struct); downgrade its resource kind to a read view
			// (SPEC_FULL.md §4.6 point 5).
			if block.DecorationFlags&DecorationFlagNonWritable != 0 {
				db.ResourceType = ResourceTypeShaderResourceView
			}
		}
		db.Block = block
	}

	for _, n := range p.nodes {
		if !isPushConstantVariable(n) {
			continue
		}
		ptrNode, err := p.requireNode(StageBlockLayout, n.WordOffset, n.ResultTypeID)
		if err != nil {
			return err
		}
		td, err := p.buildType(ptrNode.TypeID, nil)
		if err != nil {
			return err
		}
		block := p.buildBlockVariable(td, n.Name, 0, true, false, false)
		block.SPIRVID = n.ResultID
		p.module.PushConstantBlocks = append(p.module.PushConstantBlocks, block)
	}

	return nil
}

func isPushConstantVariable(n *Node) bool {
	return n.Op == spirv.OpVariable && n.HasStorage && n.StorageClass == spirv.StorageClassPushConstant
}

// buildBlockVariable recursively lays out td as a BlockVariable tree, then
// computes every member's size and padded size in a second pass so that a
// member's padding can depend on its *following* sibling's offset
// (SPEC_FULL.md §4.7). isParentRoot/isParentAOS/isParentRTA are the three
// context flags the reference layout algorithm threads through recursion:
// whether this is the block's own root, whether it is one element of an
// array-of-structs, and whether it descends from a runtime array (whose
// members can never have a fixed size or a meaningful absolute offset).
func (p *parser) buildBlockVariable(td *TypeDescription, name string, offset uint32, isParentRoot, isParentAOS, isParentRTA bool) *BlockVariable {
	bv := &BlockVariable{
		Name:            name,
		Offset:          offset,
		DecorationFlags: td.DecorationFlags,
		Numeric:         td.Numeric,
		Array:           td.Array,
		TypeDescription: td,
		SPIRVID:         td.ID,
	}

	switch {
	case isParentRoot:
		bv.AbsoluteOffset = offset
	case isParentAOS:
		bv.AbsoluteOffset = 0
	default:
		bv.AbsoluteOffset = offset // caller adds its own absolute offset below
	}

	p.sizeBlockVariable(bv, td, isParentAOS, isParentRTA)
	return bv
}

// sizeBlockVariable fills bv.Size/PaddedSize/Members per SPEC_FULL.md §4.7's
// per-op rules, then runs the padding pass over struct members.
func (p *parser) sizeBlockVariable(bv *BlockVariable, td *TypeDescription, isParentAOS, isParentRTA bool) {
	switch {
	case td.Op == spirv.OpTypeRuntimeArray:
		elem := td.Members[0]
		if elem.TypeFlags&TypeFlagStruct != 0 {
			member := p.buildBlockVariable(elem, bv.Name, 0, false, true, true)
			bv.Members = append(bv.Members, member)
		}
		bv.Size = 0
		bv.PaddedSize = 0
	case td.TypeFlags&TypeFlagArray != 0:
		elem := td.Members[0]
		stride := td.Array.Stride
		count := uint32(0)
		if len(td.Array.Dims) > 0 {
			count = 1
			for _, d := range td.Array.Dims {
				count *= d
			}
		}
		bv.Size = count * stride
		bv.PaddedSize = bv.Size
		if elem.TypeFlags&TypeFlagStruct != 0 {
			member := p.buildBlockVariable(elem, bv.Name, 0, false, true, isParentRTA)
			bv.Members = append(bv.Members, member)
		}
	case td.TypeFlags&TypeFlagStruct != 0:
		for i, member := range td.Members {
			offset := memberOffset(td, i)
			absolute := bv.AbsoluteOffset + offset
			if isParentAOS {
				absolute = offset
			}
			mv := p.buildBlockVariable(member, member.StructMemberName, offset, false, false, isParentRTA)
			mv.AbsoluteOffset = absolute
			bv.Members = append(bv.Members, mv)
		}
		padMembers(bv.Members, isParentRTA)
		if n := len(bv.Members); n > 0 {
			last := bv.Members[n-1]
			bv.Size = last.Offset + last.PaddedSize
		}
		bv.PaddedSize = bv.Size
	default:
		bv.Size = scalarSize(td)
		bv.PaddedSize = bv.Size
	}
}

// padMembers is S7's padding pass: every member but the last gets its
// padded size from the gap to its successor's offset (clamped so a member
// is never reported larger than the space actually allotted to it); the
// last member pads up to the next 16-byte boundary past its end. Under
// runtime-array ancestry no member has a meaningful padded size beyond its
// own, since nothing bounds the array's true extent.
func padMembers(members []*BlockVariable, isParentRTA bool) {
	n := len(members)
	if n == 0 {
		return
	}
	for i := 0; i < n-1; i++ {
		m := members[i]
		if isParentRTA {
			m.PaddedSize = m.Size
			continue
		}
		gap := members[i+1].Offset - m.Offset
		m.PaddedSize = gap
		if m.Size > m.PaddedSize {
			m.Size = m.PaddedSize
		}
	}
	last := members[n-1]
	if isParentRTA {
		last.PaddedSize = last.Size
		return
	}
	end := last.Offset + last.Size
	padded := roundUp16(end) - last.Offset
	last.PaddedSize = padded
	if last.Size > last.PaddedSize {
		last.Size = last.PaddedSize
	}
}

func roundUp16(v uint32) uint32 {
	return (v + 15) &^ 15
}

// memberOffset reads back the Offset decoration recorded on struct member i
// by S5 while building the type (TypeDescription.MemberOffset).
func memberOffset(structType *TypeDescription, index int) uint32 {
	if index >= len(structType.Members) {
		return 0
	}
	return structType.Members[index].MemberOffset
}

func scalarSize(td *TypeDescription) uint32 {
	switch {
	case td.TypeFlags&TypeFlagMatrix != 0:
		if td.Numeric.MatrixColMajor {
			return td.Numeric.MatrixColumns * td.Numeric.MatrixStride
		}
		return td.Numeric.MatrixRows * td.Numeric.MatrixStride
	case td.TypeFlags&TypeFlagVector != 0:
		return td.Numeric.VectorComponents * (td.Numeric.ScalarWidth / 8)
	case td.TypeFlags&(TypeFlagInt|TypeFlagFloat) != 0:
		return td.Numeric.ScalarWidth / 8
	case td.TypeFlags&TypeFlagBool != 0:
		return 4
	default:
		return 0
	}
}
