package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// relay copies src to w chunk by chunk, flushing after every write so the
// client sees upstream bytes as soon as they arrive. It returns the number
// of bytes written. A clean end of the upstream body is not an error.
func relay(w http.ResponseWriter, src io.Reader, chunkSize int) (int64, error) {
	rc := http.NewResponseController(w)
	buf := make([]byte, chunkSize)
	var total int64

	// Send headers before the first upstream byte arrives.
	if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return 0, fmt.Errorf("flush headers: %w", err)
	}

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			written, err := w.Write(buf[:n])
			total += int64(written)
			if err != nil {
				return total, fmt.Errorf("write to client: %w", err)
			}
			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return total, fmt.Errorf("flush: %w", err)
			}
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, fmt.Errorf("read upstream: %w", readErr)
		}
	}
}
