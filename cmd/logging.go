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
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/medrecords/csv-anonymizer/src/config"
)

type MyFormatter struct{}

var levelList = []string{
	"PANIC",
	"FATAL",
	"ERROR",
	"WARN",
	"INFO",
	"DEBUG",
	"TRACE",
}

func (mf *MyFormatter) Format(entry *log.Entry) ([]byte, error) {
	level := levelList[int(entry.Level)]
	caller := ""
	if entry.Caller != nil {
		caller = fmt.Sprintf(" %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	// Example log line:
	// 2024-03-15 12:16:42 INFO handler.go:75 [correlation_id=req-1234] Received event
	msg := fmt.Sprintf("%s %s%s %s%s\n",
		entry.Time.Format("2006-01-02 15:04:05"), level, caller,
		formatFields(entry.Data), entry.Message)
	return []byte(msg), nil
}

func formatFields(fields log.Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return "[" + strings.Join(pairs, " ") + "] "
}

// InitLogging configures the global logger. Lambda invocations log JSON to
// stdout for CloudWatch; other commands log to a rotated file under
// LogDir when set, stderr otherwise.
func InitLogging(cfg *config.Config, lambdaMode bool) {
	log.SetLevel(cfg.ParsedLogLevel())
	log.SetReportCaller(true)

	if lambdaMode {
		log.SetOutput(os.Stdout)
		log.SetFormatter(&log.JSONFormatter{})
		return
	}

	log.SetFormatter(&MyFormatter{})
	if cfg.LogDir == "" {
		log.SetOutput(os.Stderr)
		return
	}
	// logRotator handles scenario where the log folder or file does not exist.
	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "csv-anonymizer.log"),
		MaxSize:    200, // 200 MB log size before rotation
		MaxBackups: 10,  // Allow upto 10 logs at once before deleting oldest logs.
	})
	log.Info("Logging initialised.")
	log.Infof("Args: %v", os.Args)
}
