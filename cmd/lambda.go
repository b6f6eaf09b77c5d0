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
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medrecords/csv-anonymizer/src/config"
	"github.com/medrecords/csv-anonymizer/src/fetch"
	"github.com/medrecords/csv-anonymizer/src/objectlambda"
	"github.com/medrecords/csv-anonymizer/src/utils/httpclient"
)

const LAMBDA_COMMAND = "lambda"

var lambdaCmd = &cobra.Command{
	Use:   LAMBDA_COMMAND,
	Short: "Run as an S3 Object Lambda GetObject handler",
	Long: `Run as the handler of an S3 Object Lambda access point. Every GetObject request made
through the access point is served with the anonymized version of the stored object;
the stored object itself is never modified.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		handler, err := newObjectLambdaHandler(cmd.Context())
		if err != nil {
			return err
		}
		log.Infof("starting object lambda handler (reference date %s)",
			cfg.ReferenceDate(processStartDate).Format("2006-01-02"))
		lambda.StartWithOptions(handler.Handle, lambda.WithContext(cmd.Context()))
		return nil
	},
}

func init() {
	lambdaCmd.Flags().Duration(config.KEY_FETCH_TIMEOUT, 30*time.Second,
		"timeout of a single attempt to download the original object")
	lambdaCmd.Flags().Int(config.KEY_FETCH_MAX_RETRIES, 3,
		"retries on transient download failures, 0 disables retrying")
	for _, key := range []string{config.KEY_FETCH_TIMEOUT, config.KEY_FETCH_MAX_RETRIES} {
		cobra.CheckErr(viper.BindPFlag(key, lambdaCmd.Flags().Lookup(key)))
	}
	rootCmd.AddCommand(lambdaCmd)
}

func newObjectLambdaHandler(ctx context.Context) (*objectlambda.Handler, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	maxRetries := cfg.FetchMaxRetries
	if maxRetries == 0 {
		maxRetries = httpclient.NO_RETRIES
	}
	fetcher := fetch.NewPresignedURLFetcher(httpclient.NewClient(httpclient.Config{
		Timeout:    cfg.FetchTimeout,
		MaxRetries: maxRetries,
	}))
	handler := objectlambda.NewHandler(fetcher, newPipeline(), s3.NewFromConfig(awsCfg))
	handler.LogEvents = cfg.IsLogLevelDebugOrBelow()
	return handler, nil
}
