// Package types defines the shared error contract for the llmxml module.
//
// It is the lowest-level package and depends on nothing else in the module,
// so schema, lexer, parser and prompt can all share one error vocabulary
// without import cycles.
//
//   - Error / ErrorCode — structured errors with an optional field path
//   - ErrTypeCoercion, ErrMissingRequiredField, ErrUnresolvedUnion — final-mode
//     validation failures; partial-mode parsing never returns these
//   - ErrDescriptor — malformed descriptor tree, always fatal
package types
