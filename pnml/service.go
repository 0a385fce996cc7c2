package pnml

import (
	"context"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/petrifile"
	"go.uber.org/zap"
	"io"
)

var _ petrifile.Service = (*Service)(nil)

// Service loads PNML documents, logging the consistency report of every net
// it reads.
type Service struct {
	Logger *zap.Logger
}

func (s *Service) Load(_ context.Context, r io.Reader) (*safenet.Net, error) {
	n, report, err := Load(r)
	if report != nil && s.Logger != nil {
		report.Log(s.Logger)
	}
	return n, err
}

func (s *Service) Save(_ context.Context, w io.Writer, n *safenet.Net) error {
	return Encode(w, n)
}

func (s *Service) Version() petrifile.Version {
	return petrifile.PNML
}
