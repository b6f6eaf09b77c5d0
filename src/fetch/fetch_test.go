//go:build unit

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
package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrecords/csv-anonymizer/src/errs"
	"github.com/medrecords/csv-anonymizer/src/utils/httpclient"
)

func newTestFetcher() *PresignedURLFetcher {
	return NewPresignedURLFetcher(httpclient.NewClient(httpclient.Config{
		MaxRetries:   2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}))
}

func TestFetchOriginalStripsBOM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sig", r.URL.Query().Get("X-Amz-Signature"))
		w.Write([]byte("\xEF\xBB\xBFFullname,Birthdate\n"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().FetchOriginal(context.Background(), srv.URL+"/bucket/key.csv?X-Amz-Signature=sig")
	require.NoError(t, err)
	assert.Equal(t, "Fullname,Birthdate\n", body)
}

func TestFetchOriginalNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "NoSuchKey", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().FetchOriginal(context.Background(), srv.URL+"/bucket/key.csv?X-Amz-Signature=secret")
	require.Error(t, err)

	var fetchErr *errs.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.NotContains(t, err.Error(), "secret")
	assert.True(t, errs.IsFetchError(err))
}

func TestFetchOriginalRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().FetchOriginal(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetchOriginalGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestFetcher().FetchOriginal(context.Background(), srv.URL)
	var fetchErr *errs.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
}

func TestDecodeUTF8RejectsInvalidBytes(t *testing.T) {
	_, err := DecodeUTF8([]byte{0xff, 0xfe, 'a'})
	assert.True(t, errs.IsDocumentError(err))
}
