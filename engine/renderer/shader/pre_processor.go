// pre_processor.go expands @oxy: annotations into plain WGSL. Struct sources come from the
// Go GPU types that own them, so the CPU marshal layout and the shader declaration share one definition.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-rt/engine/frame"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/material"
)

// registryEntry pairs an embedded WGSL struct source with its WGSL type name.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations is reset at the start of each Process call.
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source and records the group and provider
// declarations it encountered.
type PreProcessor interface {
	// Process replaces include annotations with struct sources and group annotations with
	// generated declarations. Provider annotations produce no output.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error if any annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations of the last Process call in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU struct types registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgFrameUniform:  {Source: frame.GPUFrameUniformSource, Type: "FrameUniform"},
			AnnotationArgBlendParams:   {Source: material.GPUBlendParamsSource, Type: "BlendParams"},
			AnnotationArgPresentParams: {Source: material.GPUPresentParamsSource, Type: "PresentParams"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform:   "var<uniform>",
			annotationArgStorageTypeRead:      "var<storage, read>",
			annotationArgStorageTypeReadWrite: "var<storage, read_write>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[AnnotationArg]bool)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, p.structRegistry[a.Args[0]].Source)
		case AnnotationTypeBindingGroup:
			typeArg := string(a.Args[2])
			wgslType := p.structRegistry[AnnotationArg(typeArg)].Type
			if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
				wgslType = fmt.Sprintf("array<%s>", p.structRegistry[AnnotationArg(strings.TrimSuffix(inner, ">"))].Type)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], wgslType))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
