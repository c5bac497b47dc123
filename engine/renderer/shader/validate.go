package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

var (
	// ErrWGSLSyntax reports WGSL source that does not tokenize or parse.
	ErrWGSLSyntax = errors.New("wgsl syntax error")

	// ErrWGSLSemantic reports WGSL source that parses but fails lowering or IR validation.
	// The GPU driver's own compiler remains the final authority for these, so callers may
	// choose to log rather than reject.
	ErrWGSLSemantic = errors.New("wgsl semantic error")
)

// Validate parses, lowers and validates WGSL source on the CPU.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - error: nil, or an error wrapping ErrWGSLSyntax or ErrWGSLSemantic
func Validate(source string) error {
	ast, err := naga.Parse(source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWGSLSyntax, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWGSLSemantic, err)
	}
	issues, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWGSLSemantic, err)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %s (%d issues)", ErrWGSLSemantic, issues[0].Error(), len(issues))
	}
	return nil
}

// Assemble concatenates WGSL fragments, typically the canonical struct definitions owned by
// each GPU type followed by the shader body.
//
// Parameters:
//   - parts: the WGSL fragments in declaration order
//
// Returns:
//   - string: the combined source
func Assemble(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p)
		if !strings.HasSuffix(p, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
