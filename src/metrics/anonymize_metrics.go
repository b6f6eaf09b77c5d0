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
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medrecords/csv-anonymizer/src/errs"
)

const (
	RESULT_SUCCESS        = "success"
	RESULT_FETCH_ERROR    = "fetch_error"
	RESULT_DOCUMENT_ERROR = "document_error"
	RESULT_INTERNAL_ERROR = "internal_error"

	STAGE_FETCH     = "fetch"
	STAGE_ANONYMIZE = "anonymize"
	STAGE_DELIVER   = "deliver"
)

var (
	// Total data rows anonymized across all successful documents
	rowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csv_anonymizer_rows_total",
			Help: "Total data rows anonymized",
		},
	)

	documentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csv_anonymizer_documents_total",
			Help: "Documents processed, by result",
		},
		[]string{"result"},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csv_anonymizer_stage_duration_seconds",
			Help:    "Time spent per request stage",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"stage"},
	)
)

func RecordRows(rows int) {
	rowsTotal.Add(float64(rows))
}

func RecordStageDuration(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordDocument counts one processed document under the result class of err.
func RecordDocument(err error) {
	documentsTotal.WithLabelValues(ResultOf(err)).Inc()
}

func ResultOf(err error) string {
	switch {
	case err == nil:
		return RESULT_SUCCESS
	case errs.IsFetchError(err):
		return RESULT_FETCH_ERROR
	case errs.IsDocumentError(err):
		return RESULT_DOCUMENT_ERROR
	default:
		return RESULT_INTERNAL_ERROR
	}
}
