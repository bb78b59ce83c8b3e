// Package filesource is the default ports.ConfigSource: it reads the
// configuration text from a local file on every call, with no caching
// and no watching — hot partial reload is explicitly out of scope.
package filesource

import (
	"context"
	"os"
)

// Source reads Path fresh on every Read call.
type Source struct {
	Path string
}

// New returns a Source rooted at path.
func New(path string) *Source {
	return &Source{Path: path}
}

// Read implements ports.ConfigSource.
func (s *Source) Read(ctx context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}
