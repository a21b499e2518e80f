// Copyright 2019 Antrea Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openflow

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"k8s.io/klog/v2"
)

// ofnetLogVerbosity is the klog verbosity at which the debug logs of the
// OpenFlow library are enabled.
const ofnetLogVerbosity = 4

var configureOFLogsOnce sync.Once

// klogFormatter formats the logrus entries of the OpenFlow library with the
// klog header.
type klogFormatter struct {
	pid string
}

func (f *klogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	// logrus has seven logging levels: Trace, Debug, Info, Warning, Error, Fatal and Panic.
	b.WriteString(strings.ToUpper(entry.Level.String()[:1]))
	b.WriteString(entry.Time.Format("0102 15:04:05.000000"))
	fmt.Fprintf(b, " %7s ", f.pid)
	if entry.HasCaller() {
		fmt.Fprintf(b, "%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	} else {
		b.WriteString("ofnet")
	}
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%q", k, fmt.Sprint(entry.Data[k]))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// configureOFLogs sends the logs of the OpenFlow library to stderr in klog
// format. Debug logs are only enabled at a high klog verbosity.
func configureOFLogs() {
	configureOFLogsOnce.Do(func() {
		logrus.SetReportCaller(true)
		logrus.SetFormatter(&klogFormatter{pid: strconv.Itoa(os.Getpid())})
		logrus.SetOutput(os.Stderr)
		if klog.V(ofnetLogVerbosity).Enabled() {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	})
}
