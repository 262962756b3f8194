// annotations.go defines the annotation vocabulary of the WGSL pre-processor. Annotations are
// single-line WGSL comments prefixed with @oxy: that inject shared struct definitions, generate
// buffer binding declarations, and tag hand-written bindings with the resource that feeds them.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct at the annotation site.
	//
	// Syntax: //@oxy:include <struct_type>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding buffer declaration for a registered struct
	// and records it in the declarations list.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 0 4 storage_uniform frame frame_uniform
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider tags the hand-written binding below it with the resource that feeds it.
	// An optional role distinguishes bindings of a provider that spans several bindings.
	//
	// Syntax: //@oxy:provider <group> <binding> <provider_identity> [binding_role]
	//
	// Example: //@oxy:provider 0 2 skybox sampler
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @oxy: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key
	//   - group:    [0] = address space, [1] = var name, [2] = WGSL type key
	//   - provider: [0] = provider identity, [1] = binding role (optional)
	Args []AnnotationArg

	// Line is the 1-based source line of the annotation.
	Line int

	// Group and Binding are nil for include annotations.
	Group   *int
	Binding *int
}

// AnnotationArg is a typed annotation argument.
type AnnotationArg string

// Struct type arguments, each backed by an embedded .wgsl asset of a Go GPU type.
const (
	// AnnotationArgFrameUniform identifies the per-frame kernel uniform.
	// Source: engine/frame/assets/frame_uniform.wgsl
	AnnotationArgFrameUniform AnnotationArg = "frame_uniform"

	// AnnotationArgBlendParams identifies the progressive blend uniform.
	// Source: engine/renderer/material/assets/blend_params.wgsl
	AnnotationArgBlendParams AnnotationArg = "blend_params"

	// AnnotationArgPresentParams identifies the present pass uniform.
	// Source: engine/renderer/material/assets/present_params.wgsl
	AnnotationArgPresentParams AnnotationArg = "present_params"
)

// Address space arguments for @oxy:group.
const (
	annotationArgStorageTypeUniform   AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead      AnnotationArg = "storage_read"
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// Provider identity arguments for @oxy:provider.
const (
	// AnnotationArgResult identifies the kernel's per-frame output texture.
	AnnotationArgResult AnnotationArg = "result"

	// AnnotationArgSkybox identifies the environment texture and its sampler.
	AnnotationArgSkybox AnnotationArg = "skybox"

	// AnnotationArgSpheres identifies the packed sphere storage buffer.
	AnnotationArgSpheres AnnotationArg = "spheres"

	// AnnotationArgAccumulation identifies the persistent accumulation texture read by the present pass.
	AnnotationArgAccumulation AnnotationArg = "accumulation"
)

// Binding role arguments for providers spanning several bindings.
const (
	AnnotationArgTexture AnnotationArg = "texture"
	AnnotationArgSampler AnnotationArg = "sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgFrameUniform,
	AnnotationArgBlendParams,
	AnnotationArgPresentParams,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgResult,
	AnnotationArgSkybox,
	AnnotationArgSpheres,
	AnnotationArgAccumulation,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgTexture,
	AnnotationArgSampler,
}

// parseAnnotation parses a single WGSL source line. Lines without the prefix return (nil, nil).
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	_, after, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include takes exactly one struct type", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, args[1])
		}
		return &Annotation{Type: annotationTypeInclude, Args: []AnnotationArg{AnnotationArg(args[1])}, Line: lineNum}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group takes group, binding, address space, var name and type", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		elem := strings.TrimSuffix(strings.TrimPrefix(args[5], "array<"), ">")
		if !slices.Contains(validStructTypes, AnnotationArg(elem)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, elem)
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil

	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy provider takes group, binding, identity and an optional role", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	}
	return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
}

func parseSlot(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, groupArg, err)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, bindingArg, err)
	}
	return group, binding, nil
}
