// Package lambdaurl serves an http.Handler as an AWS Lambda function with a
// Function URL in RESPONSE_STREAM invoke mode. Bytes the handler writes are
// piped to the Lambda runtime as they are produced, so streamed upstream
// responses reach the client unbuffered.
package lambdaurl

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"

	"github.com/rhuss/chatproxy/pkg/api"
	"github.com/rhuss/chatproxy/pkg/transport"
)

// Handler adapts Function URL events to an http.Handler.
type Handler struct {
	next http.Handler
}

// New returns a Handler serving next.
func New(next http.Handler) (*Handler, error) {
	if next == nil {
		return nil, errors.New("lambdaurl: http handler is required")
	}
	return &Handler{next: next}, nil
}

// Handle converts the event into an *http.Request, runs the wrapped handler
// and returns as soon as the response status and headers are known. The
// body keeps streaming from the handler goroutine afterwards.
func (h *Handler) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (*events.LambdaFunctionURLStreamingResponse, error) {
	req, err := NewRequest(ctx, event)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	w := newStreamWriter(pw)

	go func() {
		var runErr error
		defer func() {
			if r := recover(); r != nil {
				if !w.committed() {
					transport.WriteAPIError(w, api.NewInternalError(fmt.Sprint(r)))
				} else {
					runErr = fmt.Errorf("handler panic: %v", r)
				}
			}
			// A handler that never wrote still produces a response.
			w.commit(http.StatusOK)
			pw.CloseWithError(runErr)
		}()
		h.next.ServeHTTP(w, req)
	}()

	select {
	case <-w.ready:
	case <-ctx.Done():
		pr.CloseWithError(ctx.Err())
		return nil, ctx.Err()
	}

	return &events.LambdaFunctionURLStreamingResponse{
		StatusCode: w.status,
		Headers:    w.headers,
		Cookies:    w.cookies,
		Body:       pr,
	}, nil
}

// NewRequest builds the *http.Request described by a Function URL event.
func NewRequest(ctx context.Context, event events.LambdaFunctionURLRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 body: %w", err)
		}
		body = decoded
	}

	method := event.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}
	path := event.RawPath
	if path == "" {
		path = "/"
	}
	target := path
	if event.RawQueryString != "" {
		target += "?" + event.RawQueryString
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	if len(event.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(event.Cookies, "; "))
	}
	req.Host = event.RequestContext.DomainName
	req.RemoteAddr = event.RequestContext.HTTP.SourceIP
	req.RequestURI = target
	return req, nil
}

// streamWriter is an http.ResponseWriter whose body is the write side of a
// pipe. Status and headers are captured once, on the first WriteHeader or
// Write, and signalled through ready.
type streamWriter struct {
	header http.Header
	pw     *io.PipeWriter
	ready  chan struct{}
	once   sync.Once

	// Set once before ready is closed.
	status  int
	headers map[string]string
	cookies []string
}

func newStreamWriter(pw *io.PipeWriter) *streamWriter {
	return &streamWriter{
		header: make(http.Header),
		pw:     pw,
		ready:  make(chan struct{}),
	}
}

func (w *streamWriter) Header() http.Header {
	return w.header
}

func (w *streamWriter) WriteHeader(status int) {
	w.commit(status)
}

func (w *streamWriter) Write(b []byte) (int, error) {
	w.commit(http.StatusOK)
	return w.pw.Write(b)
}

// Flush is a no-op: pipe writes block until the runtime has read them.
func (w *streamWriter) Flush() {}

func (w *streamWriter) committed() bool {
	select {
	case <-w.ready:
		return true
	default:
		return false
	}
}

func (w *streamWriter) commit(status int) {
	w.once.Do(func() {
		w.status = status
		w.headers = make(map[string]string, len(w.header))
		for k, v := range w.header {
			if strings.EqualFold(k, "Set-Cookie") {
				w.cookies = append(w.cookies, v...)
				continue
			}
			w.headers[k] = strings.Join(v, ", ")
		}
		close(w.ready)
	})
}
