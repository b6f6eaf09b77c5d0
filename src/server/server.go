/*
Copyright (c) YugabyteDB, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/medrecords/csv-anonymizer/src/anon"
	"github.com/medrecords/csv-anonymizer/src/errs"
	"github.com/medrecords/csv-anonymizer/src/fetch"
	"github.com/medrecords/csv-anonymizer/src/metrics"
)

const (
	REQUEST_ID_HEADER     = "X-Request-Id"
	ROWS_PROCESSED_HEADER = "X-Rows-Processed"

	MAX_DOCUMENT_BYTES = 256 << 20
)

// NewHandler serves POST /anonymize (CSV in, anonymized CSV out) and GET /healthz.
func NewHandler(transformer anon.Transformer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/anonymize", func(w http.ResponseWriter, r *http.Request) {
		handleAnonymize(transformer, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok\n")
	})
	return mux
}

func handleAnonymize(transformer anon.Transformer, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := r.Header.Get(REQUEST_ID_HEADER)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := log.WithField("correlation_id", requestID)
	w.Header().Set(REQUEST_ID_HEADER, requestID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MAX_DOCUMENT_BYTES))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.Errorf("reading request body: %v", err)
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := transformDocument(transformer, body)
	metrics.RecordStageDuration(metrics.STAGE_ANONYMIZE, time.Since(start))
	metrics.RecordDocument(err)
	if err != nil {
		logger.Errorf("anonymization failed: %v", err)
		http.Error(w, err.Error(), statusCodeFor(err))
		return
	}
	metrics.RecordRows(result.Rows)
	logger.Debugf("Anonymized the document (%d records) in %s", result.Rows, time.Since(start))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set(ROWS_PROCESSED_HEADER, strconv.Itoa(result.Rows))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, result.Output)
}

func transformDocument(transformer anon.Transformer, body []byte) (anon.TransformResult, error) {
	raw, err := fetch.DecodeUTF8(body)
	if err != nil {
		return anon.TransformResult{}, err
	}
	return transformer.Transform(raw)
}

func statusCodeFor(err error) int {
	switch {
	case errs.IsDocumentError(err):
		return http.StatusUnprocessableEntity
	case errs.IsFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
