package http

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/aretw0/consolehttp"
)

// TrailerExitCode carries the exit status of the run.
const TrailerExitCode = "X-Exit-Code"

// StreamHeaders returns the headers of a streamed document: HTML content,
// no proxy buffering, no caching, and the exit code trailer.
func StreamHeaders() http.Header {
	return http.Header{
		"Content-Type":      {"text/html; charset=UTF-8"},
		"X-Accel-Buffering": {"no"},
		"Cache-Control":     {"no-cache, must-revalidate"},
		"Trailer":           {TrailerExitCode},
	}
}

// HeaderSetting sets headers on h. It is output dependent: once the response
// is committed the previous values cannot come back.
func HeaderSetting(h http.Header, set http.Header) consolehttp.Setting {
	return consolehttp.Setting{
		Name:            "headers",
		OutputDependent: true,
		Apply: func() (func() error, error) {
			prev := make(http.Header, len(set))
			for k, v := range set {
				prev[k] = slices.Clone(h.Values(k))
				h[http.CanonicalHeaderKey(k)] = slices.Clone(v)
			}
			return func() error {
				for k, v := range prev {
					if len(v) == 0 {
						h.Del(k)
						continue
					}
					h[http.CanonicalHeaderKey(k)] = v
				}
				return nil
			}, nil
		},
	}
}

// WriteDeadlineSetting replaces the server write timeout for the stream: no
// deadline when timeout is zero, now+timeout otherwise. Writers without
// deadline support are left alone. The deadline is cleared on restore so the
// trailer can be written.
func WriteDeadlineSetting(rc *http.ResponseController, timeout time.Duration) consolehttp.Setting {
	return consolehttp.Setting{
		Name: "write_deadline",
		Apply: func() (func() error, error) {
			var deadline time.Time
			if timeout > 0 {
				deadline = time.Now().Add(timeout)
			}
			if err := rc.SetWriteDeadline(deadline); err != nil {
				if errors.Is(err, http.ErrNotSupported) {
					return nil, nil
				}
				return nil, err
			}
			return func() error {
				if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
					return err
				}
				return nil
			}, nil
		},
	}
}
