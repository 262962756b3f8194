package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// structBlockRegex captures a struct's name and body.
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// fieldRegex captures a field's name and type, skipping leading attributes.
	fieldRegex = regexp.MustCompile(`^(?:@\w+(?:\([^)]*\))?\s*)*(\w+)\s*:\s*(.+)$`)

	entryRegexes = map[ShaderType]*regexp.Regexp{
		ShaderTypeCompute:  regexp.MustCompile(`(?s)@compute\b.*?\bfn\s+(\w+)`),
		ShaderTypeVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		ShaderTypeFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
	}

	// workgroupSizeRegex captures 1-3 dimensions from @workgroup_size(x[, y[, z]]).
	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?\)`)

	// bindingDeclRegex captures group, binding, optional address space, name and type of a resource declaration.
	bindingDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

type structField struct {
	name     string
	typeName string
}

type structDecl struct {
	name   string
	fields []structField
}

// reflection is everything the renderer needs to know about a shader without compiling it.
type reflection struct {
	layouts       map[int]wgpu.BindGroupLayoutDescriptor
	varNames      map[int]map[int]string
	entryPoint    string
	workgroupSize [3]uint32
}

// reflectSource extracts bind group layouts, the entry point and, for compute shaders, the workgroup size.
// Buffer entries get MinBindingSize from the bound type's layout when it can be resolved.
//
// Parameters:
//   - source: expanded WGSL source
//   - shaderType: the stage whose entry point and visibility are used
//
// Returns:
//   - reflection: the extracted metadata
func reflectSource(source string, shaderType ShaderType) reflection {
	cleaned := stripComments(source)
	r := reflection{
		layouts:  make(map[int]wgpu.BindGroupLayoutDescriptor),
		varNames: make(map[int]map[int]string),
	}

	if m := entryRegexes[shaderType].FindStringSubmatch(cleaned); m != nil {
		r.entryPoint = m[1]
	}
	if shaderType == ShaderTypeCompute {
		r.workgroupSize = parseWorkgroupSize(cleaned)
	}

	sizes := structLayouts(parseStructs(cleaned))
	visibility := stageVisibility(shaderType)

	grouped := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, m := range bindingDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		typeName := strings.TrimSpace(m[5])

		entry := classifyResource(uint32(binding), visibility, strings.TrimSpace(m[3]), typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := typeLayout(typeName, sizes); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}
		grouped[group] = append(grouped[group], entry)

		if r.varNames[group] == nil {
			r.varNames[group] = make(map[int]string)
		}
		r.varNames[group][binding] = m[4]
	}

	for g, entries := range grouped {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		r.layouts[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return r
}

func stageVisibility(shaderType ShaderType) wgpu.ShaderStage {
	switch shaderType {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	case ShaderTypeCompute:
		return wgpu.ShaderStageCompute
	}
	return wgpu.ShaderStageNone
}

// parseWorkgroupSize defaults omitted dimensions to 1.
func parseWorkgroupSize(cleaned string) [3]uint32 {
	size := [3]uint32{1, 1, 1}
	m := workgroupSizeRegex.FindStringSubmatch(cleaned)
	if m == nil {
		return size
	}
	for i := range 3 {
		if m[i+1] == "" {
			continue
		}
		if v, err := strconv.ParseUint(m[i+1], 10, 32); err == nil {
			size[i] = uint32(v)
		}
	}
	return size
}

func parseStructs(cleaned string) []structDecl {
	matches := structBlockRegex.FindAllStringSubmatch(cleaned, -1)
	decls := make([]structDecl, 0, len(matches))
	for _, m := range matches {
		decl := structDecl{name: m[1]}
		for _, part := range splitTopLevel(m[2]) {
			part = strings.TrimSpace(part)
			if part == "" || strings.Contains(part, "@builtin") {
				continue
			}
			if fm := fieldRegex.FindStringSubmatch(part); fm != nil {
				decl.fields = append(decl.fields, structField{name: fm[1], typeName: strings.TrimSpace(fm[2])})
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

// splitTopLevel splits at commas outside angle brackets, so array<T, N> stays whole.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line comments and (nested) block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
