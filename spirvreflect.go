// Package spirvreflect reflects compiled SPIR-V shader modules, recovering
// their descriptor bindings, block layouts, and entry point interfaces
// directly from the binary word stream.
//
// Reflection runs over an in-memory []uint32 word stream and never touches
// a compiler, a filesystem, or a network socket — CreateShaderModule is the
// package's only entry point.
//
// Example usage:
//
//	module, err := spirvreflect.CreateShaderModule(words) // words []uint32
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, db := range module.DescriptorBindings {
//	    fmt.Printf("set=%d binding=%d type=%s\n", db.Set, db.Binding, db.DescriptorType)
//	}
package spirvreflect
