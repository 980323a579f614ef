// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "net/http"

// statusRecorder wraps an [http.ResponseWriter] and remembers the status code
// and the number of body bytes, so withLogging can report them once the
// handler returns. Bodies are never retained: auth responses carry tokens.
type statusRecorder struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	size        int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

// WriteHeader forwards only the first status code.
func (w *statusRecorder) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Status returns the recorded status, or 200 when the handler wrote nothing,
// which is what net/http sends in that case.
func (w *statusRecorder) Status() int {
	if !w.wroteHeader {
		return http.StatusOK
	}
	return w.status
}
