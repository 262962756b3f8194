package shader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/naga"
)

// ErrInvalidSource is returned by Validate when the WGSL source does not parse.
var ErrInvalidSource = errors.New("invalid WGSL source")

// Validate checks WGSL source offline before it reaches the driver. Syntax errors fail validation.
// Lowering errors are logged and tolerated since the driver performs the authoritative check
// when the module is created.
//
// Parameters:
//   - key: the shader key used in log and error messages
//   - source: expanded WGSL source
//
// Returns:
//   - error: ErrInvalidSource wrapping the parser error, or nil
func Validate(key, source string) error {
	ast, err := naga.Parse(source)
	if err != nil {
		return fmt.Errorf("shader %s: %w: %w", key, ErrInvalidSource, err)
	}
	if _, err := naga.LowerWithSource(ast, source); err != nil {
		slog.Debug("shader lowering skipped", "shader", key, "error", err)
	}
	return nil
}
