package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

// MarkitdownConverter pipes PDF bytes through the markitdown executable.
type MarkitdownConverter struct {
	path string
}

// NewMarkitdownConverter verifies the executable is resolvable before
// returning a converter around it.
func NewMarkitdownConverter(path string) (*MarkitdownConverter, error) {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("markitdown executable %q not found: %w", path, err)
	}
	return &MarkitdownConverter{path: resolved}, nil
}

// Convert runs markitdown with the PDF on stdin and returns its markdown
// output. An empty result is valid; blank or image-only pages convert to
// nothing.
func (c *MarkitdownConverter) Convert(ctx context.Context, pdf []byte) (string, error) {
	cmd := exec.CommandContext(ctx, c.path)
	cmd.Stdin = bytes.NewReader(pdf)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("%w: markitdown: %s", vo.ErrConversion, detail)
	}
	return out.String(), nil
}
