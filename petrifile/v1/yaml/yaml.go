package yaml

import (
	"context"
	"fmt"
	"github.com/jt05610/safenet"
	pf "github.com/jt05610/safenet/petrifile"
	"github.com/jt05610/safenet/petrifile/v1"
	"gopkg.in/yaml.v3"
	"io"
)

var _ pf.Service = (*Service)(nil)

type Service struct {
}

func (s *Service) Load(_ context.Context, r io.Reader) (*safenet.Net, error) {
	var f petrifile.Petrifile
	err := yaml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("petrifile: %w", err)
	}
	return f.Net()
}

func (s *Service) Save(_ context.Context, w io.Writer, n *safenet.Net) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(petrifile.FromNet(n)); err != nil {
		return fmt.Errorf("petrifile: %w", err)
	}
	return enc.Close()
}

func (s *Service) Version() pf.Version {
	return pf.V1
}
