package spirvreflect

import "github.com/gogpu/spirvreflect/spirv"

// parseMemberCountsAndDecorations is S4. The first sub-pass walks
// OpMemberName/OpMemberDecorate to size each struct type's member arrays
// (some types are only ever referenced by these, never solely by
// OpTypeStruct's own operand count). The second sub-pass folds every
// reflection-relevant decoration instruction into its target node or member.
func (p *parser) parseMemberCountsAndDecorations() error {
	for _, n := range p.nodes {
		switch n.Op {
		case spirv.OpMemberName:
			if err := p.growMemberCount(n.WordOffset+1, p.words[n.WordOffset+2]); err != nil {
				return err
			}
		case spirv.OpMemberDecorate:
			if err := p.growMemberCount(n.WordOffset+1, p.words[n.WordOffset+2]); err != nil {
				return err
			}
		}
	}
	for _, n := range p.nodes {
		if n.MemberCount > 0 && n.MemberNames == nil {
			n.MemberNames = make([]string, n.MemberCount)
			n.MemberDecorations = make([]Decorations, n.MemberCount)
			for i := range n.MemberDecorations {
				n.MemberDecorations[i] = newDecorations()
			}
		}
	}

	for _, n := range p.nodes {
		switch n.Op {
		case spirv.OpName:
			target, err := p.requireNode(StageDecorations, n.WordOffset, n.ResultID)
			if err != nil {
				return err
			}
			s, err := readString(p.words, n.WordOffset+2)
			if err != nil {
				return err
			}
			target.Name = s
		case spirv.OpMemberName:
			target, err := p.requireNode(StageDecorations, n.WordOffset, n.ResultID)
			if err != nil {
				return err
			}
			idx := p.words[n.WordOffset+2]
			s, err := readString(p.words, n.WordOffset+3)
			if err != nil {
				return err
			}
			target.MemberNames[idx] = s
		case spirv.OpDecorate:
			if err := p.applyDecorate(n.WordOffset, false); err != nil {
				return err
			}
		case spirv.OpMemberDecorate:
			if err := p.applyDecorate(n.WordOffset, true); err != nil {
				return err
			}
		case spirv.OpDecorateId:
			if err := p.applyDecorateID(n.WordOffset); err != nil {
				return err
			}
		case spirv.OpDecorateString:
			if err := p.applyDecorateString(n.WordOffset, false); err != nil {
				return err
			}
		case spirv.OpMemberDecorateStringGOOGLE:
			if err := p.applyDecorateString(n.WordOffset, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) growMemberCount(targetIDWord uint32, memberIndex uint32) error {
	target, err := p.requireNode(StageDecorations, targetIDWord, p.words[targetIDWord])
	if err != nil {
		return err
	}
	if int(memberIndex)+1 > target.MemberCount {
		target.MemberCount = int(memberIndex) + 1
	}
	return nil
}

// applyDecorate folds OpDecorate/OpMemberDecorate. Member variants carry a
// member-index word at +2, shifting the decoration word and any value
// operand one position later than the non-member form.
func (p *parser) applyDecorate(offset uint32, isMember bool) error {
	targetID := p.words[offset+1]
	target, err := p.requireNode(StageDecorations, offset, targetID)
	if err != nil {
		return err
	}

	decWord := offset + 2
	var dst *Decorations
	if isMember {
		memberIdx := p.words[offset+2]
		decWord = offset + 3
		if int(memberIdx) >= len(target.MemberDecorations) {
			return newReflectError(StageDecorations, ErrKindStructural, offset, "member index %d out of range", memberIdx)
		}
		dst = &target.MemberDecorations[memberIdx]
	} else {
		dst = &target.Decorations
	}

	dec := spirv.Decoration(p.words[decWord])
	valueWord := decWord + 1
	switch dec {
	case spirv.DecorationBlock:
		dst.Flags |= DecorationFlagBlock
	case spirv.DecorationBufferBlock:
		dst.Flags |= DecorationFlagBufferBlock
	case spirv.DecorationRowMajor:
		dst.Flags |= DecorationFlagRowMajor
	case spirv.DecorationColMajor:
		dst.Flags |= DecorationFlagColumnMajor
	case spirv.DecorationNoPerspective:
		dst.Flags |= DecorationFlagNoPerspective
	case spirv.DecorationFlat:
		dst.Flags |= DecorationFlagFlat
	case spirv.DecorationNonWritable:
		dst.Flags |= DecorationFlagNonWritable
	case spirv.DecorationBuiltIn:
		dst.BuiltIn = spirv.BuiltIn(p.words[valueWord])
		dst.HasBuiltIn = true
	case spirv.DecorationArrayStride:
		dst.ArrayStride = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	case spirv.DecorationMatrixStride:
		dst.MatrixStride = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	case spirv.DecorationLocation:
		dst.Location = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	case spirv.DecorationBinding:
		dst.Binding = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	case spirv.DecorationDescriptorSet:
		dst.Set = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	case spirv.DecorationOffset:
		dst.Offset = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	case spirv.DecorationInputAttachmentIndex:
		dst.InputAttachmentIndex = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	}
	return nil
}

// applyDecorateID folds OpDecorateId, used by HlslCounterBufferGOOGLE whose
// operand is itself a result id rather than a literal.
func (p *parser) applyDecorateID(offset uint32) error {
	targetID := p.words[offset+1]
	target, err := p.requireNode(StageDecorations, offset, targetID)
	if err != nil {
		return err
	}
	dec := spirv.Decoration(p.words[offset+2])
	valueWord := offset + 3
	if dec == spirv.DecorationHlslCounterBufferGOOGLE {
		target.Decorations.UAVCounterBuffer = NumberDecoration{WordOffset: valueWord, Value: p.words[valueWord]}
	}
	return nil
}

// applyDecorateString folds OpDecorateString/OpMemberDecorateStringGOOGLE,
// used by HlslSemanticGOOGLE whose operand is a packed UTF-8 string.
func (p *parser) applyDecorateString(offset uint32, isMember bool) error {
	targetID := p.words[offset+1]
	target, err := p.requireNode(StageDecorations, offset, targetID)
	if err != nil {
		return err
	}

	decWord := offset + 2
	var dst *Decorations
	if isMember {
		memberIdx := p.words[offset+2]
		decWord = offset + 3
		if int(memberIdx) >= len(target.MemberDecorations) {
			return newReflectError(StageDecorations, ErrKindStructural, offset, "member index %d out of range", memberIdx)
		}
		dst = &target.MemberDecorations[memberIdx]
	} else {
		dst = &target.Decorations
	}

	dec := spirv.Decoration(p.words[decWord])
	strWord := decWord + 1
	if dec == spirv.DecorationHlslSemanticGOOGLE {
		s, err := readString(p.words, strWord)
		if err != nil {
			return err
		}
		dst.Semantic = StringDecoration{WordOffset: strWord, Value: s}
	}
	return nil
}
