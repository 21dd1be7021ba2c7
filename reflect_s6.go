package spirvreflect

import (
	"sort"

	"github.com/gogpu/spirvreflect/spirv"
)

// parseDescriptorBindings is S6: every OpVariable carrying both a
// DescriptorSet and a Binding decoration is a descriptor binding, regardless
// of its storage class — the commented-out Uniform/UniformConstant/
// StorageBuffer/Image filter some reference parsers apply is deliberately
// not carried forward here (SPEC_FULL.md §4.6 / §9 open question 2).
func (p *parser) parseDescriptorBindings() error {
	for _, n := range p.nodes {
		if n.Op != spirv.OpVariable {
			continue
		}
		if !n.Decorations.Set.isSet() || !n.Decorations.Binding.isSet() {
			continue
		}
		db, err := p.buildDescriptorBinding(n)
		if err != nil {
			return err
		}
		p.module.DescriptorBindings = append(p.module.DescriptorBindings, db)
	}

	sort.Slice(p.module.DescriptorBindings, func(a, b int) bool {
		x, y := p.module.DescriptorBindings[a], p.module.DescriptorBindings[b]
		if x.Binding != y.Binding {
			return x.Binding < y.Binding
		}
		return x.SPIRVID < y.SPIRVID
	})

	return p.resolveUAVCounters()
}

func (p *parser) buildDescriptorBinding(n *Node) (*DescriptorBinding, error) {
	ptrNode, err := p.requireNode(StageDescriptorBinding, n.WordOffset, n.ResultTypeID)
	if err != nil {
		return nil, err
	}
	td, err := p.buildType(ptrNode.TypeID, nil)
	if err != nil {
		return nil, err
	}

	elem := td
	arr := ArrayTraits{}
	count := uint32(1)
	if td.TypeFlags&TypeFlagArray != 0 {
		arr = td.Array
		if len(arr.Dims) == 0 {
			count = 0 // unbounded runtime array of resources
		} else {
			count = 1
			for _, d := range arr.Dims {
				count *= d
			}
		}
		if len(td.Members) > 0 {
			elem = td.Members[0]
		}
	}

	descType, err := classifyDescriptorType(elem, n.StorageClass, n.WordOffset)
	if err != nil {
		return nil, err
	}
	db := &DescriptorBinding{
		SPIRVID:              n.ResultID,
		Name:                 n.Name,
		DescriptorType:       descType,
		ResourceType:         classifyResourceType(descType),
		Binding:              n.Decorations.Binding.Value,
		Set:                  n.Decorations.Set.Value,
		InputAttachmentIndex: n.Decorations.InputAttachmentIndex.Value,
		Count:                count,
		TypeIndex:            p.typeIndex(td),
		Image:                elem.Image,
		Array:                arr,
		WordOffsets: WordOffsets{
			BindingWord: n.Decorations.Binding.WordOffset,
			SetWord:     n.Decorations.Set.WordOffset,
		},
	}
	if n.Decorations.UAVCounterBuffer.isSet() {
		db.UAVCounterID = n.Decorations.UAVCounterBuffer.Value
		db.UAVCounterIndex = -1
	} else {
		db.UAVCounterIndex = -1
	}
	return db, nil
}

// classifyDescriptorType mirrors the reference parser's type-to-descriptor
// mapping: structs resolve on their block decoration and storage class,
// samplers/images on the pointee type's own shape. A struct carrying
// neither Block nor BufferBlock is a structural error (SPEC_FULL.md §4.6
// point 3) rather than a silent default.
func classifyDescriptorType(td *TypeDescription, storage spirv.StorageClass, wordOffset uint32) (DescriptorType, error) {
	switch {
	case td.TypeFlags&TypeFlagStruct != 0:
		switch {
		case td.DecorationFlags&DecorationFlagBufferBlock != 0:
			return DescriptorTypeStorageBuffer, nil
		case td.DecorationFlags&DecorationFlagBlock != 0:
			if storage == spirv.StorageClassStorageBuffer {
				return DescriptorTypeStorageBuffer, nil
			}
			return DescriptorTypeUniformBuffer, nil
		default:
			return 0, newReflectError(StageDescriptorBinding, ErrKindMissingBlockDecoration, wordOffset,
				"struct descriptor carries neither Block nor BufferBlock decoration")
		}
	case td.TypeFlags&TypeFlagExternalSampler != 0:
		return DescriptorTypeSampler, nil
	case td.TypeFlags&TypeFlagExternalSampledImage != 0:
		if td.Image.Dim == spirv.DimBuffer {
			if td.Image.Sampled == 2 {
				return DescriptorTypeStorageBuffer, nil
			}
			return DescriptorTypeUniformBuffer, nil
		}
		return DescriptorTypeCombinedImageSampler, nil
	case td.TypeFlags&TypeFlagExternalImage != 0:
		switch td.Image.Dim {
		case spirv.DimBuffer:
			if td.Image.Sampled == 2 {
				return DescriptorTypeStorageTexelBuffer, nil
			}
			return DescriptorTypeUniformTexelBuffer, nil
		case spirv.DimSubpassData:
			return DescriptorTypeInputAttachment, nil
		default:
			if td.Image.Sampled == 2 {
				return DescriptorTypeStorageImage, nil
			}
			return DescriptorTypeSampledImage, nil
		}
	default:
		return DescriptorTypeUniformBuffer, nil
	}
}

func classifyResourceType(t DescriptorType) ResourceType {
	switch t {
	case DescriptorTypeSampler:
		return ResourceTypeSampler
	case DescriptorTypeCombinedImageSampler:
		return ResourceTypeSampler | ResourceTypeShaderResourceView
	case DescriptorTypeSampledImage, DescriptorTypeUniformTexelBuffer, DescriptorTypeInputAttachment:
		return ResourceTypeShaderResourceView
	case DescriptorTypeStorageImage, DescriptorTypeStorageTexelBuffer, DescriptorTypeStorageBuffer:
		return ResourceTypeUnorderedAccessView
	case DescriptorTypeUniformBuffer:
		return ResourceTypeConstantBufferView
	default:
		return 0
	}
}

// typeIndex returns td's index in the module's type table, appending it the
// first time it's seen. Types are memoized by pointer identity since
// buildType already dedups by result id through p.typeTable.
func (p *parser) typeIndex(td *TypeDescription) int {
	for i, existing := range p.module.TypeDescriptions {
		if existing == td {
			return i
		}
	}
	p.module.TypeDescriptions = append(p.module.TypeDescriptions, td)
	return len(p.module.TypeDescriptions) - 1
}

// resolveUAVCounters links each StorageBuffer descriptor to the counter
// buffer that tracks its append/consume position: by HlslCounterBufferGOOGLE
// id when present, otherwise by the "{name}@count" naming convention HLSL
// generators use for counter buffers they don't explicitly decorate
// (SPEC_FULL.md §4.6 Counter-buffer association).
func (p *parser) resolveUAVCounters() error {
	byID := make(map[uint32]int, len(p.module.DescriptorBindings))
	byName := make(map[string]int, len(p.module.DescriptorBindings))
	for i, db := range p.module.DescriptorBindings {
		if db.DescriptorType == DescriptorTypeStorageBuffer {
			byID[db.SPIRVID] = i
			byName[db.Name] = i
		}
	}
	for _, db := range p.module.DescriptorBindings {
		if db.DescriptorType != DescriptorTypeStorageBuffer {
			continue
		}
		if db.UAVCounterID != 0 {
			idx, ok := byID[db.UAVCounterID]
			if !ok {
				return newReflectError(StageDescriptorBinding, ErrKindUnresolvedID, db.WordOffsets.BindingWord,
					"unresolved UAV counter buffer id %%%d", db.UAVCounterID)
			}
			db.UAVCounterIndex = idx
			continue
		}
		if idx, ok := byName[db.Name+"@count"]; ok {
			db.UAVCounterIndex = idx
		}
	}
	return nil
}
