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
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"

	"github.com/medrecords/csv-anonymizer/src/config"
	"github.com/medrecords/csv-anonymizer/src/metrics"
	"github.com/medrecords/csv-anonymizer/src/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve anonymization over HTTP",
	Long: `Start an HTTP server that anonymizes CSV documents posted to /anonymize.
Prometheus metrics are exposed on /metrics of --metrics-port when set.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.MetricsPort != "" {
			metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort)
			atexit.Register(func() { shutdown(metricsSrv) })
		}

		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           server.NewHandler(newPipeline()),
			ReadHeaderTimeout: 10 * time.Second,
		}
		atexit.Register(func() { shutdown(srv) })

		log.Infof("listening on %s (reference date %s)", cfg.ListenAddr,
			cfg.ReferenceDate(processStartDate).Format("2006-01-02"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String(config.KEY_LISTEN_ADDR, ":8080", "address to listen on")
	serveCmd.Flags().String(config.KEY_METRICS_PORT, "", "port for the Prometheus /metrics endpoint (disabled when empty)")
	for _, key := range []string{config.KEY_LISTEN_ADDR, config.KEY_METRICS_PORT} {
		cobra.CheckErr(viper.BindPFlag(key, serveCmd.Flags().Lookup(key)))
	}
	rootCmd.AddCommand(serveCmd)
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("shutting down server on %s: %v", srv.Addr, err)
	}
}
