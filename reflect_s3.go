package spirvreflect

import (
	"sort"

	"github.com/gogpu/spirvreflect/spirv"
)

// parseFunctions is S3: identify function definitions, collect each one's
// callees and accessed variable ids, and resolve the call graph.
//
// A function spans from OpFunction to the matching OpFunctionEnd; it is a
// definition (as opposed to a forward declaration) only if an OpLabel
// appears before its OpFunctionEnd. For a defined function, the
// body scan covers the half-open range [first_label, function_end): access
// and call opcodes are dispatched directly as they are encountered, and the
// scan stops at OpFunctionEnd. (See SPEC_FULL.md §4.3 / §9 open question 1
// for why this is not gated behind the reference parser's inverted guard.)
func (p *parser) parseFunctions() error {
	for i := 0; i < len(p.nodes); i++ {
		n := p.nodes[i]
		if n.Op != spirv.OpFunction {
			continue
		}
		fn, next, err := p.parseOneFunction(i)
		if err != nil {
			return err
		}
		if fn != nil {
			p.functions = append(p.functions, fn)
		}
		i = next
	}

	sort.Slice(p.functions, func(a, b int) bool { return p.functions[a].ID < p.functions[b].ID })
	p.funcIndexByID = make(map[uint32]int, len(p.functions))
	for idx, fn := range p.functions {
		p.funcIndexByID[fn.ID] = idx
	}
	for _, fn := range p.functions {
		for ci := range fn.callees {
			idx, ok := p.funcIndexByID[fn.callees[ci].calleeID]
			if !ok {
				return newReflectError(StageFunctions, ErrKindUnresolvedID, 0,
					"unresolved call target %%%d", fn.callees[ci].calleeID)
			}
			fn.callees[ci].function = idx
		}
	}
	return nil
}

// parseOneFunction scans the function beginning at nodes[start] (an
// OpFunction) and returns the built Function (nil if it's only a forward
// declaration) plus the index of its OpFunctionEnd node.
func (p *parser) parseOneFunction(start int) (*Function, int, error) {
	fnNode := p.nodes[start]
	end := start + 1
	for end < len(p.nodes) && p.nodes[end].Op != spirv.OpFunctionEnd {
		end++
	}
	if end >= len(p.nodes) {
		return nil, 0, newReflectError(StageFunctions, ErrKindStructural, fnNode.WordOffset, "function missing OpFunctionEnd")
	}

	firstLabel := start + 1
	for firstLabel < end && p.nodes[firstLabel].Op != spirv.OpLabel {
		firstLabel++ // skip OpFunctionParameter nodes
	}
	if firstLabel >= end {
		return nil, end, nil // forward declaration, no body
	}

	fn := &Function{ID: fnNode.ResultID}
	accessed := make(map[uint32]struct{})
	for i := firstLabel; i < end; i++ {
		n := p.nodes[i]
		off := n.WordOffset
		switch n.Op {
		case spirv.OpFunctionCall:
			fn.callees = append(fn.callees, calleeRef{calleeID: p.words[off+3]})
		case spirv.OpLoad, spirv.OpAccessChain, spirv.OpInBoundsAccessChain,
			spirv.OpPtrAccessChain, spirv.OpArrayLength, spirv.OpGenericPtrMemSemantics,
			spirv.OpInBoundsPtrAccessChain:
			accessed[p.words[off+3]] = struct{}{}
		case spirv.OpStore:
			accessed[p.words[off+2]] = struct{}{}
		case spirv.OpCopyMemory:
			accessed[p.words[off+2]] = struct{}{}
			accessed[p.words[off+3]] = struct{}{}
		case spirv.OpCopyMemorySized:
			accessed[p.words[off+2]] = struct{}{}
			accessed[p.words[off+3]] = struct{}{}
		}
	}

	fn.Accessed = make([]uint32, 0, len(accessed))
	for id := range accessed {
		fn.Accessed = append(fn.Accessed, id)
	}
	sort.Slice(fn.Accessed, func(a, b int) bool { return fn.Accessed[a] < fn.Accessed[b] })

	sort.Slice(fn.callees, func(a, b int) bool { return fn.callees[a].calleeID < fn.callees[b].calleeID })
	unique := fn.callees[:0]
	for _, c := range fn.callees {
		if len(unique) == 0 || unique[len(unique)-1].calleeID != c.calleeID {
			unique = append(unique, c)
		}
	}
	fn.callees = unique

	return fn, end, nil
}
