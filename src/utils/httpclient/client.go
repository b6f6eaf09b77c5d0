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

package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
)

/*
HTTP client used to download original objects through pre-signed URLs.

It wraps hashicorp/go-retryablehttp to provide:
 1. Automatic retries on transient errors (network issues, 5xx errors, 429 rate limiting)
 2. Exponential backoff with jitter between retries
 3. Logging of each attempt with the URL query string removed, since pre-signed
    URLs carry credentials in the query
*/
type Client struct {
	retryClient *retryablehttp.Client
}

func NewClient(config Config) *Client {
	defaultCfg := DefaultConfig()
	if config.Timeout == 0 {
		config.Timeout = defaultCfg.Timeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaultCfg.MaxRetries
	} else if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryWaitMin == 0 {
		config.RetryWaitMin = defaultCfg.RetryWaitMin
	}
	if config.RetryWaitMax == 0 {
		config.RetryWaitMax = defaultCfg.RetryWaitMax
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = defaultCfg.MaxIdleConns
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = defaultCfg.IdleConnTimeout
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			MaxIdleConns:    config.MaxIdleConns,
			IdleConnTimeout: config.IdleConnTimeout,
		},
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = config.MaxRetries
	retryClient.RetryWaitMin = config.RetryWaitMin
	retryClient.RetryWaitMax = config.RetryWaitMax

	// Disable default logging from retryablehttp (added our own)
	retryClient.Logger = nil
	retryClient.CheckRetry = customRetryPolicy
	retryClient.RequestLogHook = requestLogHook
	// Hand the last response back instead of a generic "giving up" error so that
	// callers can report the status code.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{retryClient: retryClient}
}

// GetBytes performs a GET request and returns the status code and the full body.
// Non-2xx responses are not treated as errors here; the caller decides.
func (c *Client) GetBytes(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	startTime := time.Now()
	resp, err := c.retryClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Warnf("GET request failed: url=%s, duration=%s, error=%v", RedactURL(rawURL), duration, err)
		return 0, nil, fmt.Errorf("GET request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Infof("GET request completed: url=%s, status=%d, bytes=%d, duration=%s",
		RedactURL(rawURL), resp.StatusCode, len(body), duration)
	return resp.StatusCode, body, nil
}

// RedactURL drops the query string and user info of a URL.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.User = nil
	u.Fragment = ""
	return u.String()
}

func customRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	shouldRetry, checkErr := retryablehttp.DefaultRetryPolicy(ctx, resp, err)

	if shouldRetry {
		reason := "unknown"
		if err != nil {
			reason = fmt.Sprintf("error: %v", err)
		} else if resp != nil {
			reason = fmt.Sprintf("status: %d", resp.StatusCode)
		}
		log.Debugf("Retrying request due to: %s", reason)
	}

	return shouldRetry, checkErr
}

func requestLogHook(_ retryablehttp.Logger, req *http.Request, attemptNum int) {
	if attemptNum == 0 {
		log.Debugf("Attempting request: method=%s, url=%s", req.Method, RedactURL(req.URL.String()))
	} else {
		log.Infof("Retrying request: attempt=%d, method=%s, url=%s", attemptNum+1, req.Method, RedactURL(req.URL.String()))
	}
}
