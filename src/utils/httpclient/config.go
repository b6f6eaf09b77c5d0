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

import "time"

const NO_RETRIES = -1

// Config holds configuration for the HTTP client
type Config struct {
	// Timeout is the maximum time for a single attempt
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts, NO_RETRIES disables retrying
	// Default: 3
	MaxRetries int

	// RetryWaitMin is the minimum wait time between retries
	// go-retryablehttp uses exponential backoff starting from this value
	// Default: 200 milliseconds
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait time between retries
	// Default: 5 seconds
	RetryWaitMax time.Duration

	// MaxIdleConns controls the maximum number of idle (keep-alive) connections
	// Default: 10
	MaxIdleConns int

	// IdleConnTimeout is the maximum amount of time an idle connection will remain idle
	// Default: 90 seconds
	IdleConnTimeout time.Duration
}

// DefaultConfig returns the defaults used for pre-signed object downloads.
// Retry waits are kept short since the caller of an object lambda is waiting on us.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}
}
