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
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/medrecords/csv-anonymizer/src/anon"
	"github.com/medrecords/csv-anonymizer/src/datastore"
	"github.com/medrecords/csv-anonymizer/src/fetch"
	"github.com/medrecords/csv-anonymizer/src/metrics"
)

var (
	inputPath  string
	outputPath string
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Anonymize a single CSV document",
	Long: `Anonymize a single CSV document read from a local path or a blob URL
(s3://bucket/key, gs://bucket/key, azblob://container/key, file:///path).
The result is written to --output, or to stdout when --output is not given.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		var out io.Writer
		if outputPath == "" {
			out = cmd.OutOrStdout()
		}
		result, duration, err := anonymizeDocument(cmd.Context(), newPipeline(), inputPath, outputPath, out)
		if err != nil {
			return err
		}
		if outputPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %d rows from %s to %s in %s\n",
				color.GreenString("Anonymized"), result.Rows, inputPath, outputPath, duration.Round(time.Millisecond))
		}
		return nil
	},
}

func init() {
	anonymizeCmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"path or blob URL of the original CSV document")
	anonymizeCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"path or blob URL to write the anonymized CSV document to (default: stdout)")
	cobra.CheckErr(anonymizeCmd.MarkFlagRequired("input"))
	rootCmd.AddCommand(anonymizeCmd)
}

// anonymizeDocument reads the document at input, anonymizes it and writes it
// either to the output location or, when output is empty, to w.
func anonymizeDocument(ctx context.Context, transformer anon.Transformer, input, output string, w io.Writer) (anon.TransformResult, time.Duration, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	data, err := datastore.NewDataStore(input).ReadObject(ctx, input)
	if err != nil {
		return anon.TransformResult{}, 0, fmt.Errorf("reading %s: %w", input, err)
	}
	raw, err := fetch.DecodeUTF8(data)
	if err != nil {
		return anon.TransformResult{}, 0, fmt.Errorf("reading %s: %w", input, err)
	}

	result, err := transformer.Transform(raw)
	metrics.RecordDocument(err)
	if err != nil {
		return anon.TransformResult{}, 0, fmt.Errorf("anonymizing %s: %w", input, err)
	}
	metrics.RecordRows(result.Rows)
	log.Infof("anonymized %s (%d records)", input, result.Rows)

	if output == "" {
		if w == nil {
			w = os.Stdout
		}
		_, err = io.WriteString(w, result.Output)
	} else {
		err = datastore.NewDataStore(output).WriteObject(ctx, output, []byte(result.Output))
	}
	if err != nil {
		return anon.TransformResult{}, 0, fmt.Errorf("writing anonymized document: %w", err)
	}
	return result, time.Since(start), nil
}
