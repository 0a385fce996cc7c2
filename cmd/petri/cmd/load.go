/*
Copyright © 2024 Jonathan Taylor <jonrtaylor12@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/


package cmd

import (
	"context"
	"errors"
	"fmt"
	"github.com/jt05610/safenet"
	"github.com/jt05610/safenet/graphviz"
	"github.com/jt05610/safenet/petrifile"
	"github.com/jt05610/safenet/petrifile/v1/yaml"
	"github.com/jt05610/safenet/pnml"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"strings"
)

var errNoInput = errors.New("no input file, use -i")

func registry() petrifile.Registry {
	p := &pnml.Service{Logger: logger.Named("pnml")}
	y := &yaml.Service{}
	d := graphviz.Loader()
	return petrifile.Registry{
		".pnml":  p,
		".xml":   p,
		".yaml":  y,
		".yml":   y,
		".petri": y,
		".dot":   d,
		".gv":    d,
	}
}

func loadNet(ctx context.Context, path string) (*safenet.Net, error) {
	if path == "" {
		return nil, errNoInput
	}
	svc, err := registry().For(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	net, err := svc.Load(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if net.Name == "" || net.Name == "net" {
		net.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	logger.Info("net loaded",
		zap.String("file", path),
		zap.String("format", string(svc.Version())),
		zap.String("net", net.Name),
		zap.Int("places", net.NumPlaces()),
		zap.Int("transitions", net.NumTransitions()),
	)
	return net, nil
}
