package logging

import (
	"fmt"
	"io"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGraylogWriter connects a GELF writer to the given Graylog address
// (host:port, UDP). The returned writer is safe to hand to Setup.
func NewGraylogWriter(address string) (io.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("connecting to graylog at %s: %w", address, err)
	}
	return w, nil
}
