package segmenter

import (
	"fmt"
	"go/ast"
	"go/token"
	"path"
	"strings"

	"codequery/pkg/types"
)

// commonCalls is the fixed denylist of universally common call names excluded
// from a function chunk's dependency references.
var commonCalls = map[string]bool{
	"len": true, "cap": true, "append": true, "make": true, "new": true,
	"copy": true, "delete": true, "close": true, "panic": true, "recover": true,
	"print": true, "println": true, "min": true, "max": true, "clear": true,
	"Error": true, "Errorf": true, "Sprintf": true, "Printf": true,
	"Println": true, "Fprintf": true, "Sprint": true, "String": true,
}

// extractor walks a parsed file and emits chunks in document order
type extractor struct {
	fset    *token.FileSet
	relPath string
	lines   []string
}

// extract emits the module chunk, then one chunk per top-level declaration.
// Parent linkage is attached after the walk: methods point at their receiver's
// type chunk, everything else at the module chunk.
func (e *extractor) extract(file *ast.File) []types.Chunk {
	pkgName := ""
	if file.Name != nil {
		pkgName = file.Name.Name
	}

	chunks := make([]types.Chunk, 0, len(file.Decls)+1)

	var moduleID string
	if mod, ok := e.moduleChunk(file, pkgName); ok {
		moduleID = mod.ID
		chunks = append(chunks, mod)
	}

	// receiver type name -> index into chunks, for method parent attachment
	typeIndex := make(map[string]int)
	// chunk index -> receiver name, resolved after all types are known
	pendingMethods := make(map[int]string)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			c := e.functionChunk(d, pkgName)
			chunks = append(chunks, c)
			if recv := receiverName(d); recv != "" {
				pendingMethods[len(chunks)-1] = recv
			}
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					c := e.typeChunk(d, ts, pkgName)
					chunks = append(chunks, c)
					typeIndex[ts.Name.Name] = len(chunks) - 1
				}
			case token.CONST, token.VAR:
				if c, ok := e.groupChunk(d, pkgName); ok {
					chunks = append(chunks, c)
				}
			}
		}
	}

	// Attach parent context. Methods may precede their type in the file, so
	// this runs once the whole file has been walked.
	for i := range chunks {
		if chunks[i].Kind == types.KindModule {
			continue
		}
		if recv, ok := pendingMethods[i]; ok {
			if ti, found := typeIndex[recv]; found {
				parent := chunks[ti]
				chunks[i].ParentID = parent.ID
				chunks[i].ContextLabel = fmt.Sprintf("%s %s", parent.Kind, parent.Name)
				continue
			}
		}
		if moduleID != "" {
			chunks[i].ParentID = moduleID
			chunks[i].ContextLabel = fmt.Sprintf("module %s", pkgName)
		}
	}

	return chunks
}

// moduleChunk covers the package clause through the end of the import block.
// Its dependency refs are the imported package base names, in order.
func (e *extractor) moduleChunk(file *ast.File, pkgName string) (types.Chunk, bool) {
	if file.Name == nil {
		return types.Chunk{}, false
	}

	start := e.line(file.Package)
	end := start
	deps := make([]string, 0, len(file.Imports))
	seen := make(map[string]bool)

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.IMPORT {
			continue
		}
		if l := e.line(gd.End()); l > end {
			end = l
		}
	}
	for _, imp := range file.Imports {
		p := strings.Trim(imp.Path.Value, `"`)
		name := path.Base(p)
		if imp.Name != nil && imp.Name.Name != "_" && imp.Name.Name != "." {
			name = imp.Name.Name
		}
		if !seen[name] {
			seen[name] = true
			deps = append(deps, name)
		}
	}

	content := e.slice(start, end)
	if content == "" {
		return types.Chunk{}, false
	}
	return types.Chunk{
		ID:           types.ChunkID(e.relPath, start, end, content),
		Content:      content,
		Path:         e.relPath,
		StartLine:    start,
		EndLine:      end,
		Kind:         types.KindModule,
		Name:         pkgName,
		Dependencies: deps,
	}, true
}

// typeChunk covers one type declaration. Dependency refs are the embedded
// struct fields and embedded interfaces found in the immediate body.
func (e *extractor) typeChunk(decl *ast.GenDecl, ts *ast.TypeSpec, pkgName string) types.Chunk {
	start, end := e.span(decl.Pos(), decl.End())
	if len(decl.Specs) > 1 {
		start, end = e.span(ts.Pos(), ts.End())
	}
	content := e.slice(start, end)

	return types.Chunk{
		ID:           types.ChunkID(e.relPath, start, end, content),
		Content:      content,
		Path:         e.relPath,
		StartLine:    start,
		EndLine:      end,
		Kind:         types.KindType,
		Name:         qualify(pkgName, ts.Name.Name),
		Dependencies: embeddedTypes(ts),
	}
}

// functionChunk covers one function or method declaration. Dependency refs
// are the names called anywhere in its body, minus the common-call denylist.
func (e *extractor) functionChunk(decl *ast.FuncDecl, pkgName string) types.Chunk {
	start, end := e.span(decl.Pos(), decl.End())
	content := e.slice(start, end)

	name := qualify(pkgName, decl.Name.Name)
	if recv := receiverName(decl); recv != "" {
		name = qualify(pkgName, recv+"."+decl.Name.Name)
	}

	return types.Chunk{
		ID:           types.ChunkID(e.relPath, start, end, content),
		Content:      content,
		Path:         e.relPath,
		StartLine:    start,
		EndLine:      end,
		Kind:         types.KindFunction,
		Name:         name,
		Dependencies: calledNames(decl),
	}
}

// groupChunk covers a const or var declaration group, named after its first
// declared identifier.
func (e *extractor) groupChunk(decl *ast.GenDecl, pkgName string) (types.Chunk, bool) {
	first := ""
	for _, spec := range decl.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok || len(vs.Names) == 0 {
			continue
		}
		first = vs.Names[0].Name
		break
	}
	if first == "" {
		return types.Chunk{}, false
	}

	start, end := e.span(decl.Pos(), decl.End())
	content := e.slice(start, end)
	return types.Chunk{
		ID:        types.ChunkID(e.relPath, start, end, content),
		Content:   content,
		Path:      e.relPath,
		StartLine: start,
		EndLine:   end,
		Kind:      types.KindGroup,
		Name:      qualify(pkgName, first),
	}, true
}

func (e *extractor) line(pos token.Pos) int {
	return e.fset.Position(pos).Line
}

func (e *extractor) span(start, end token.Pos) (int, int) {
	return e.line(start), e.line(end)
}

// slice returns the literal source between two 1-based line numbers, inclusive
func (e *extractor) slice(start, end int) string {
	if start < 1 || start > len(e.lines) {
		return ""
	}
	if end > len(e.lines) {
		end = len(e.lines)
	}
	return strings.Join(e.lines[start-1:end], "\n")
}

// receiverName returns the method receiver's type name, or "" for functions
func receiverName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}
	switch t := decl.Recv.List[0].Type.(type) {
	case *ast.StarExpr:
		return baseTypeName(t.X)
	default:
		return baseTypeName(t)
	}
}

func baseTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return baseTypeName(t.X)
	case *ast.IndexListExpr:
		return baseTypeName(t.X)
	}
	return ""
}

// embeddedTypes collects embedded struct fields and embedded interfaces from
// the immediate body of a type declaration.
func embeddedTypes(ts *ast.TypeSpec) []string {
	var fields *ast.FieldList
	switch t := ts.Type.(type) {
	case *ast.StructType:
		fields = t.Fields
	case *ast.InterfaceType:
		fields = t.Methods
	default:
		return nil
	}
	if fields == nil {
		return nil
	}

	var deps []string
	seen := make(map[string]bool)
	for _, field := range fields.List {
		if len(field.Names) != 0 {
			continue // named field or interface method, not an embed
		}
		if _, isFunc := field.Type.(*ast.FuncType); isFunc {
			continue
		}
		name := embeddedName(field.Type)
		if name != "" && !seen[name] {
			seen[name] = true
			deps = append(deps, name)
		}
	}
	return deps
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return embeddedName(t.X) + "." + t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	}
	return ""
}

// calledNames collects outbound call names from anywhere in a function's
// subtree, excluding the common-call denylist. Order of first occurrence is
// preserved and duplicates are dropped.
func calledNames(decl *ast.FuncDecl) []string {
	if decl.Body == nil {
		return nil
	}

	var deps []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || commonCalls[name] || seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, name)
	}

	ast.Inspect(decl.Body, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch fn := call.Fun.(type) {
		case *ast.Ident:
			add(fn.Name)
		case *ast.SelectorExpr:
			add(fn.Sel.Name)
		}
		return true
	})
	return deps
}

func qualify(pkgName, name string) string {
	if pkgName == "" {
		return name
	}
	return pkgName + "." + name
}
