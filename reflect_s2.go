package spirvreflect

import "github.com/gogpu/spirvreflect/spirv"

// parseStrings is S2: collect every OpString node, and if one's result id
// matches the OpSource-declared source file id, record it as the module's
// source file name. A mismatch between the S1-tallied string count and the
// strings actually found here is fatal.
func (p *parser) parseStrings() error {
	found := 0
	for _, n := range p.nodes {
		if n.Op != spirv.OpString {
			continue
		}
		found++
		if p.hasSourceFileID && n.ResultID == p.sourceFileID {
			p.module.SourceFile = n.Name
		}
	}
	if found != p.stringCount {
		return newReflectError(StageStrings, ErrKindCountMismatch, 0,
			"expected %d OpString nodes, found %d", p.stringCount, found)
	}
	return nil
}
