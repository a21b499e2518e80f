// Copyright 2020 Antrea Authors
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

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

const oneMB = 1 * 1024 * 1024

var (
	testFlags          = initFlags()
	klogDefaultMaxSize = klog.MaxSize
)

func initFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flags)
	return flags
}

func restoreFlagDefaultValues() {
	testFlags.Set(logToStdErrFlag, "true")
	testFlags.Set(logFileFlag, "")
	testFlags.Set(logDirFlag, "")
	testFlags.Set(maxSizeFlag, fmt.Sprintf("%d", klogDefaultMaxSize/oneMB))
	testFlags.Set(maxNumFlag, "0")

	klog.MaxSize = klogDefaultMaxSize
	logFileMaxNum = 0
	logDir = ""
}

func TestFlags(t *testing.T) {
	testcases := []struct {
		name    string
		args    []string
		maxSize uint64
		maxNum  uint16
		logDir  string
	}{
		{
			name:    "logtostderr",
			args:    []string{"--log_file_max_size=1", "--log_file_max_num=1"},
			maxSize: klogDefaultMaxSize,
			maxNum:  0,
			logDir:  "",
		},
		{
			name:    "single file",
			args:    []string{"--logtostderr=false", "--log_file=test.log", "--log_file_max_size=1", "--log_file_max_num=1"},
			maxSize: klogDefaultMaxSize,
			maxNum:  0,
			logDir:  "",
		},
		{
			name:    "maxnum only",
			args:    []string{"--logtostderr=false", "--log_dir=/var/log/test", "--log_file_max_num=1"},
			maxSize: klogDefaultMaxSize,
			maxNum:  1,
			logDir:  "/var/log/test",
		},
		{
			name:    "tmp dir",
			args:    []string{"--logtostderr=false", "--log_file_max_size=1", "--log_file_max_num=2"},
			maxSize: oneMB,
			maxNum:  2,
			logDir:  os.TempDir(),
		},
	}

	for _, test := range testcases {
		t.Run(test.name, func(t *testing.T) {
			defer restoreFlagDefaultValues()
			require.NoError(t, testFlags.Parse(test.args))
			InitLogFileLimits(testFlags)
			assert.Equal(t, test.maxSize, klog.MaxSize)
			assert.Equal(t, test.maxNum, logFileMaxNum)
			assert.Equal(t, test.logDir, logDir)
		})
	}
}

func TestCheckLogFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	originalFs := logFs
	logFs = fs
	logDir = "/var/log/flow-manager"
	logFileMaxNum = 2
	defer func() {
		logFs = originalFs
		restoreFlagDefaultValues()
	}()

	now := time.Now()
	var infoFiles, warningFiles []string
	for i := 0; i < 4; i++ {
		info := filepath.Join(logDir, fmt.Sprintf("%s.host.root.log.INFO.%d", executableName, i))
		warning := filepath.Join(logDir, fmt.Sprintf("%s.host.root.log.WARNING.%d", executableName, i))
		for _, name := range []string{info, warning} {
			require.NoError(t, afero.WriteFile(fs, name, []byte("log"), 0644))
			modTime := now.Add(time.Duration(i) * time.Minute)
			require.NoError(t, fs.Chtimes(name, modTime, modTime))
		}
		infoFiles = append(infoFiles, info)
		warningFiles = append(warningFiles, warning)
	}
	other := filepath.Join(logDir, "other.log.INFO.0")
	require.NoError(t, afero.WriteFile(fs, other, []byte("log"), 0644))

	checkLogFiles()

	exists := func(name string) bool {
		ok, err := afero.Exists(fs, name)
		require.NoError(t, err)
		return ok
	}
	for _, files := range [][]string{infoFiles, warningFiles} {
		// The two oldest files are removed.
		assert.False(t, exists(files[0]))
		assert.False(t, exists(files[1]))
		assert.True(t, exists(files[2]))
		assert.True(t, exists(files[3]))
	}
	assert.True(t, exists(other))
}

func TestStartLogFileNumberMonitorDisabled(t *testing.T) {
	// Returns immediately without a limit.
	StartLogFileNumberMonitor(make(chan struct{}))
}
