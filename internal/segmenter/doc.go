// Package segmenter extracts hierarchical chunks from source files.
//
// Go files are parsed with go/parser and yield, in document order: a module
// chunk (package clause + imports), a chunk per type declaration, per function
// or method, and per const/var group, then a whole-file fallback chunk. Other
// eligible files yield only the fallback chunk. Parse failures are recovered
// locally: the file still contributes its fallback chunk.
//
// Methods carry a weak parent reference to their receiver's type chunk;
// everything else points at the module chunk. Chunks whose token estimate
// exceeds the configured limit are replaced by ordered parts that reconstruct
// the original content when concatenated by part index.
package segmenter
