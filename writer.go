// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pagination

import (
	"bytes"
	"net/http"
	"strconv"
)

// captureWriter wraps the response writer and holds back the status code and
// body until the handler chain has returned. Headers go straight to the
// wrapped writer's header map.
type captureWriter struct {
	http.ResponseWriter
	buf         bytes.Buffer
	statusCode  int
	wroteHeader bool
}

// WriteHeader records the status code. Only the first call counts.
func (cw *captureWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.statusCode = code
	cw.wroteHeader = true
}

// Write buffers data, implying a 200 status if none was set.
func (cw *captureWriter) Write(data []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}

	return cw.buf.Write(data)
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (cw *captureWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// Status returns the captured status code, 200 if none was written.
func (cw *captureWriter) Status() int {
	if cw.statusCode == 0 {
		return http.StatusOK
	}

	return cw.statusCode
}

// passthrough sends the captured response unchanged.
func (cw *captureWriter) passthrough() error {
	if !cw.wroteHeader {
		return nil
	}

	cw.ResponseWriter.WriteHeader(cw.statusCode)
	if cw.buf.Len() == 0 {
		return nil
	}
	_, err := cw.ResponseWriter.Write(cw.buf.Bytes())

	return err
}

// replace sends body as JSON with the captured status code.
func (cw *captureWriter) replace(body []byte) error {
	h := cw.ResponseWriter.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))

	cw.ResponseWriter.WriteHeader(cw.Status())
	_, err := cw.ResponseWriter.Write(body)

	return err
}
