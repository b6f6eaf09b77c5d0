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
package objectlambda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"github.com/medrecords/csv-anonymizer/src/anon"
	"github.com/medrecords/csv-anonymizer/src/errs"
	"github.com/medrecords/csv-anonymizer/src/fetch"
	"github.com/medrecords/csv-anonymizer/src/metrics"
	"github.com/medrecords/csv-anonymizer/src/utils/httpclient"
)

const (
	CSV_CONTENT_TYPE = "text/csv"

	ERROR_CODE_FETCH_FAILED     = "FetchFailed"
	ERROR_CODE_INVALID_DOCUMENT = "InvalidDocument"
	ERROR_CODE_INTERNAL         = "InternalError"

	REDACTED = "<redacted>"
)

// ResponseWriter delivers the transformed object to the requester that
// triggered the lambda. *s3.Client implements it.
type ResponseWriter interface {
	WriteGetObjectResponse(ctx context.Context, params *s3.WriteGetObjectResponseInput, optFns ...func(*s3.Options)) (*s3.WriteGetObjectResponseOutput, error)
}

type Response struct {
	StatusCode int `json:"status_code"`
}

type Handler struct {
	fetcher     fetch.Fetcher
	transformer anon.Transformer
	writer      ResponseWriter

	// LogEvents logs every received event, with its pre-signed URL redacted.
	LogEvents bool
}

func NewHandler(fetcher fetch.Fetcher, transformer anon.Transformer, writer ResponseWriter) *Handler {
	return &Handler{fetcher: fetcher, transformer: transformer, writer: writer}
}

/*
Handle serves one S3 Object Lambda GetObject request:
 1. download the original object through the pre-signed inputS3Url
 2. anonymize it
 3. send the anonymized body back on the request's output route

When fetching or anonymizing fails, an error response is still sent on the
output route so that the requester is not left waiting, and the error is returned.
*/
func (h *Handler) Handle(ctx context.Context, event events.S3ObjectLambdaEvent) (Response, error) {
	logger := log.WithField("correlation_id", event.XAmzRequestID)
	logger.Infof("Received event with requestId: %s", event.XAmzRequestID)
	if h.LogEvents {
		logger.Debugf("Event: %s", redactedEvent(event))
	}

	if event.GetObjectContext == nil {
		return Response{}, fmt.Errorf("event %s has no getObjectContext", event.XAmzRequestID)
	}
	route := event.GetObjectContext.OutputRoute
	token := event.GetObjectContext.OutputToken

	start := time.Now()
	original, err := h.fetcher.FetchOriginal(ctx, event.GetObjectContext.InputS3URL)
	metrics.RecordStageDuration(metrics.STAGE_FETCH, time.Since(start))
	if err != nil {
		return h.fail(ctx, logger, route, token, err)
	}
	logger.Debugf("Downloaded original file in %s", time.Since(start))

	start = time.Now()
	result, err := h.transformer.Transform(original)
	metrics.RecordStageDuration(metrics.STAGE_ANONYMIZE, time.Since(start))
	if err != nil {
		return h.fail(ctx, logger, route, token, err)
	}
	logger.Debugf("Anonymized the file (%d records) in %s", result.Rows, time.Since(start))

	start = time.Now()
	_, err = h.writer.WriteGetObjectResponse(ctx, &s3.WriteGetObjectResponseInput{
		RequestRoute:  aws.String(route),
		RequestToken:  aws.String(token),
		Body:          strings.NewReader(result.Output),
		ContentLength: aws.Int64(int64(len(result.Output))),
		ContentType:   aws.String(CSV_CONTENT_TYPE),
	})
	metrics.RecordStageDuration(metrics.STAGE_DELIVER, time.Since(start))
	if err != nil {
		err = fmt.Errorf("sending anonymized object: %w", err)
		metrics.RecordDocument(err)
		logger.Errorf("%v", err)
		return Response{}, err
	}
	logger.Debugf("Sending anonymized file in %s", time.Since(start))

	metrics.RecordDocument(nil)
	metrics.RecordRows(result.Rows)
	return Response{StatusCode: http.StatusOK}, nil
}

func (h *Handler) fail(ctx context.Context, logger *log.Entry, route, token string, cause error) (Response, error) {
	metrics.RecordDocument(cause)
	logger.Errorf("anonymization failed: %v", cause)

	statusCode, errorCode := errorResponseFor(cause)
	_, err := h.writer.WriteGetObjectResponse(ctx, &s3.WriteGetObjectResponseInput{
		RequestRoute: aws.String(route),
		RequestToken: aws.String(token),
		StatusCode:   aws.Int32(statusCode),
		ErrorCode:    aws.String(errorCode),
		ErrorMessage: aws.String(cause.Error()),
	})
	if err != nil {
		logger.Errorf("sending error response: %v", err)
	}
	return Response{}, cause
}

func errorResponseFor(err error) (int32, string) {
	switch {
	case errs.IsFetchError(err):
		return http.StatusBadGateway, ERROR_CODE_FETCH_FAILED
	case errs.IsDocumentError(err):
		return http.StatusUnprocessableEntity, ERROR_CODE_INVALID_DOCUMENT
	default:
		return http.StatusInternalServerError, ERROR_CODE_INTERNAL
	}
}

// redactedEvent renders event as JSON without the credentials carried by its
// pre-signed URLs or its output token.
func redactedEvent(event events.S3ObjectLambdaEvent) string {
	if event.GetObjectContext != nil {
		goc := *event.GetObjectContext
		goc.InputS3URL = httpclient.RedactURL(goc.InputS3URL)
		goc.OutputToken = REDACTED
		event.GetObjectContext = &goc
	}
	event.UserRequest.URL = httpclient.RedactURL(event.UserRequest.URL)
	event.UserRequest.Headers = nil
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Sprintf("<unprintable event: %v>", err)
	}
	return string(b)
}
