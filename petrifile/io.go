package petrifile

import (
	"context"
	"fmt"
	"github.com/jt05610/safenet"
	"io"
	"path/filepath"
	"strings"
)

type Service interface {
	Load(ctx context.Context, r io.Reader) (*safenet.Net, error)
	Save(ctx context.Context, w io.Writer, n *safenet.Net) error
	Version() Version
}

type Version string

const (
	V1   Version = "v1"
	PNML Version = "pnml"
	DOT  Version = "dot"
)

// Registry picks a Service by file extension.
type Registry map[string]Service

// For returns the service registered for the extension of path.
func (r Registry) For(path string) (Service, error) {
	ext := strings.ToLower(filepath.Ext(path))
	s, ok := r[ext]
	if !ok {
		return nil, fmt.Errorf("no net format registered for %q", ext)
	}
	return s, nil
}
