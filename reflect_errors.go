package spirvreflect

import "fmt"

// ReflectStage names the reflection pass that raised an error.
type ReflectStage string

const (
	StageNodeScan          ReflectStage = "node-scan"
	StageStrings           ReflectStage = "strings"
	StageFunctions         ReflectStage = "functions"
	StageDecorations       ReflectStage = "decorations"
	StageTypes             ReflectStage = "types"
	StageDescriptorBinding ReflectStage = "descriptor-binding"
	StageBlockLayout       ReflectStage = "block-layout"
	StageEntryPoint        ReflectStage = "entry-point"
)

// ReflectErrorKind is a comparable reason code for a ReflectError: one
// struct shape covers every failure condition rather than a distinct Go
// type per condition.
type ReflectErrorKind uint8

const (
	ErrKindBadMagic ReflectErrorKind = iota
	ErrKindTruncated
	ErrKindUnresolvedID
	ErrKindCountMismatch
	ErrKindCallGraphCycle
	ErrKindMissingBlockDecoration
	ErrKindStructural
)

// ReflectError reports a fatal reflection failure with enough context to
// locate it in both the pipeline and the original word stream.
type ReflectError struct {
	Stage      ReflectStage
	Kind       ReflectErrorKind
	WordOffset uint32
	Message    string
}

// Error implements the error interface.
func (e *ReflectError) Error() string {
	return fmt.Sprintf("%s: %s (word %d)", e.Stage, e.Message, e.WordOffset)
}

func newReflectError(stage ReflectStage, kind ReflectErrorKind, wordOffset uint32, format string, args ...interface{}) *ReflectError {
	return &ReflectError{
		Stage:      stage,
		Kind:       kind,
		WordOffset: wordOffset,
		Message:    fmt.Sprintf(format, args...),
	}
}
