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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medrecords/csv-anonymizer/src/anon"
	"github.com/medrecords/csv-anonymizer/src/config"
	"github.com/medrecords/csv-anonymizer/src/utils"
)

var (
	cfgFile string
	cfg     *config.Config

	// Captured once; ages stay stable for the lifetime of the process.
	processStartDate = anon.Today()
)

var rootCmd = &cobra.Command{
	Use:   "csv-anonymizer",
	Short: "Anonymize health-record CSV documents on retrieval",
	Long: `csv-anonymizer keeps only the allow-listed columns of a health-record CSV document and
replaces the Fullname and Birthdate columns with a generated pseudonym and an age.

It runs as an S3 Object Lambda (lambda), as an HTTP service (serve), or on a single
document stored locally or in s3/gcs/azure blob storage (anonymize).`,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		InitLogging(cfg, cmd.Name() == LAMBDA_COMMAND)
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.ErrExit("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	registerCommonGlobalFlags(rootCmd)
}

func registerCommonGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.csv-anonymizer.yaml)")
	cmd.PersistentFlags().String(config.KEY_LOG_LEVEL, config.INFO,
		"log level: trace, debug, info, warn, error, fatal, panic")
	cmd.PersistentFlags().String(config.KEY_LOG_DIR, "",
		"directory for rotated log files (default: log to stderr)")
	cmd.PersistentFlags().Int64(config.KEY_NAME_SEED, 0,
		"seed for reproducible pseudonyms drawn from the built-in corpus (0 uses random faker names)")
	cmd.PersistentFlags().String(config.KEY_AS_OF, "",
		"reference date for age computation, YYYY-MM-DD (default: the date the process started)")

	for _, key := range []string{config.KEY_LOG_LEVEL, config.KEY_LOG_DIR, config.KEY_NAME_SEED, config.KEY_AS_OF} {
		cobra.CheckErr(viper.BindPFlag(key, cmd.PersistentFlags().Lookup(key)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".csv-anonymizer")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		utils.ErrExit("reading config file %q: %v", cfgFile, err)
	}
}

// newPipeline builds the anonymization pipeline from the loaded configuration.
func newPipeline() *anon.Pipeline {
	return anon.NewPipeline(anon.NewRowTransformer(cfg.NameSource(), cfg.ReferenceDate(processStartDate)))
}
