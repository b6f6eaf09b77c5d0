//go:build unit

package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medrecords/csv-anonymizer/src/anon"
)

func newTestServer() *httptest.Server {
	asOf := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	pipeline := anon.NewPipeline(anon.NewRowTransformer(anon.NewCorpusNameSource(3), asOf))
	return httptest.NewServer(NewHandler(pipeline))
}

func post(t *testing.T, srv *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/anonymize", strings.NewReader(body))
	assert.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	return resp
}

func TestAnonymizeEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv, "Fullname,Birthdate,Gender,Smoking,Weight,Height,Disease\n"+
		"Ann Smith,2000-03-15,Female,No,65,170,Flu\n", map[string]string{REQUEST_ID_HEADER: "req-42"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(ROWS_PROCESSED_HEADER))
	assert.Equal(t, "req-42", resp.Header.Get(REQUEST_ID_HEADER))

	var sb bytes.Buffer
	_, err := sb.ReadFrom(resp.Body)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(sb.String(), "Fullname,Age,Gender,Smoking,Weight,Height,Disease\r\n"))
	assert.Contains(t, sb.String(), ",24,Female,No,65,170,Flu\r\n")
	assert.NotContains(t, sb.String(), "Ann Smith")
}

func TestAnonymizeEndpointGeneratesRequestID(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := post(t, srv, "Fullname,Birthdate,Gender,Smoking,Weight,Height,Disease\n", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get(ROWS_PROCESSED_HEADER))
	assert.Len(t, resp.Header.Get(REQUEST_ID_HEADER), 36)
}

func TestAnonymizeEndpointRejectsInvalidDocuments(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	for _, body := range []string{
		"Fullname,Birthdate,Gender\n",
		"Fullname,Birthdate,Gender,Smoking,Weight,Height,Disease\nAnn,not-a-date,Female,No,1,2,Flu\n",
		"\xff\xfe",
	} {
		resp := post(t, srv, body, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "body %q", body)
	}
}

func TestAnonymizeEndpointMethodNotAllowed(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/anonymize")
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
