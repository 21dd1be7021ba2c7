package spirvreflect

import (
	"sort"

	"github.com/gogpu/spirvreflect/spirv"
)

// parseEntryPoints is S8: decode every OpEntryPoint, split its interface ids
// into inputs and outputs, reflect each one's type, and walk the call graph
// from the entry function to determine which descriptor bindings and push
// constant blocks it actually touches.
func (p *parser) parseEntryPoints() error {
	found := 0
	for _, n := range p.nodes {
		if n.Op != spirv.OpEntryPoint {
			continue
		}
		found++
		ep, err := p.buildEntryPoint(n)
		if err != nil {
			return err
		}
		p.module.EntryPoints = append(p.module.EntryPoints, ep)
	}
	if found != p.entryPointCount {
		return newReflectError(StageEntryPoint, ErrKindCountMismatch, 0,
			"expected %d entry points, found %d", p.entryPointCount, found)
	}
	return nil
}

func (p *parser) buildEntryPoint(n *Node) (*EntryPoint, error) {
	off := n.WordOffset
	model := spirv.ExecutionModel(p.words[off+1])
	funcID := p.words[off+2]
	nameOffset := off + 3
	name, err := readString(p.words, nameOffset)
	if err != nil {
		return nil, err
	}
	ifaceStart := nameOffset + stringWordCount(len(name))

	ep := &EntryPoint{
		Name:                name,
		ID:                  funcID,
		SPIRVExecutionModel: model,
		ShaderStage:         executionModelToStage(model),
	}

	for w := ifaceStart; w < off+n.WordCount; w++ {
		varNode, err := p.requireNode(StageEntryPoint, w, p.words[w])
		if err != nil {
			return nil, err
		}
		iv, err := p.buildInterfaceVariable(varNode)
		if err != nil {
			return nil, err
		}
		switch varNode.StorageClass {
		case spirv.StorageClassInput:
			ep.InputVariables = append(ep.InputVariables, iv)
		case spirv.StorageClassOutput:
			ep.OutputVariables = append(ep.OutputVariables, iv)
		}
	}
	sort.Slice(ep.InputVariables, func(a, b int) bool { return ep.InputVariables[a].Location < ep.InputVariables[b].Location })
	sort.Slice(ep.OutputVariables, func(a, b int) bool { return ep.OutputVariables[a].Location < ep.OutputVariables[b].Location })

	accessed, err := p.collectAccessed(funcID)
	if err != nil {
		return nil, err
	}

	for _, db := range p.module.DescriptorBindings {
		if _, ok := accessed[db.SPIRVID]; ok {
			db.Accessed = true
			ep.DescriptorSets = appendUnique(ep.DescriptorSets, db.Set)
			ep.UsedUniforms = append(ep.UsedUniforms, db.SPIRVID)
		}
	}
	for _, pcNode := range p.nodes {
		if !isPushConstantVariable(pcNode) {
			continue
		}
		if _, ok := accessed[pcNode.ResultID]; ok {
			ep.UsedPushConstants = append(ep.UsedPushConstants, pcNode.ResultID)
		}
	}

	sort.Slice(ep.DescriptorSets, func(a, b int) bool { return ep.DescriptorSets[a] < ep.DescriptorSets[b] })
	sort.Slice(ep.UsedUniforms, func(a, b int) bool { return ep.UsedUniforms[a] < ep.UsedUniforms[b] })
	sort.Slice(ep.UsedPushConstants, func(a, b int) bool { return ep.UsedPushConstants[a] < ep.UsedPushConstants[b] })

	return ep, nil
}

// buildInterfaceVariable reflects one Input/Output OpVariable's pointee
// type. Struct-typed interface variables (pipeline I/O blocks) are
// flattened one level into per-member InterfaceVariables.
func (p *parser) buildInterfaceVariable(n *Node) (*InterfaceVariable, error) {
	ptrNode, err := p.requireNode(StageEntryPoint, n.WordOffset, n.ResultTypeID)
	if err != nil {
		return nil, err
	}
	td, err := p.buildType(ptrNode.TypeID, nil)
	if err != nil {
		return nil, err
	}

	iv := &InterfaceVariable{
		SPIRVID:         n.ResultID,
		Name:            n.Name,
		TypeDescription: td,
	}
	if n.Decorations.Location.isSet() {
		iv.Location = n.Decorations.Location.Value
		iv.HasLocation = true
		iv.LocationWordOffset = n.Decorations.Location.WordOffset
	}
	if n.Decorations.HasBuiltIn {
		iv.BuiltIn = n.Decorations.BuiltIn
		iv.HasBuiltIn = true
	}
	iv.Semantic = n.Decorations.Semantic.Value

	if td.TypeFlags&TypeFlagStruct != 0 {
		base := iv.Location
		for i, member := range td.Members {
			iv.Members = append(iv.Members, &InterfaceVariable{
				Name:            member.StructMemberName,
				Location:        base + uint32(i),
				HasLocation:     iv.HasLocation,
				TypeDescription: member,
			})
		}
	}

	return iv, nil
}

// collectAccessed walks the call graph from funcID, returning the union of
// every reachable function's accessed variable ids. A gray node revisited
// before it's finished (classic DFS cycle detection) is reported as an
// error rather than silently truncating the traversal.
func (p *parser) collectAccessed(funcID uint32) (map[uint32]struct{}, error) {
	accessed := make(map[uint32]struct{})
	const (
		white = 0
		gray  = 1
		black = 2
	)
	state := make(map[int]int, len(p.functions))

	var visit func(idx int) error
	visit = func(idx int) error {
		switch state[idx] {
		case black:
			return nil
		case gray:
			return newReflectError(StageEntryPoint, ErrKindCallGraphCycle, 0,
				"call graph cycle involving function %%%d", p.functions[idx].ID)
		}
		state[idx] = gray
		fn := p.functions[idx]
		for _, id := range fn.Accessed {
			accessed[id] = struct{}{}
		}
		for _, c := range fn.callees {
			if err := visit(c.function); err != nil {
				return err
			}
		}
		state[idx] = black
		return nil
	}

	if idx, ok := p.funcIndexByID[funcID]; ok {
		if err := visit(idx); err != nil {
			return nil, err
		}
	}
	return accessed, nil
}

func appendUnique(ids []uint32, id uint32) []uint32 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
