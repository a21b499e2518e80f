// Copyright 2024 Antrea Authors
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

package version

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
)

// These variables are set at build-time with -ldflags "-X".
var (
	// Version follows https://semver.org/, with an optional "v" prefix.
	Version = ""
	// Empty if git not available.
	GitSHA = ""
	// "dirty", "clean" or empty.
	GitTreeState = ""
	// "unreleased" or "released". Build information is appended to unreleased
	// versions.
	ReleaseStatus = "unreleased"
)

// GetVersion returns the parsed Version, or the zero version if it is unset or
// invalid.
func GetVersion() semver.Version {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return semver.Version{}
	}
	return v
}

// GetFullVersion returns "<version>" for released builds and
// "<version>-<SHA>[.dirty]" otherwise.
func GetFullVersion() string {
	if Version == "" {
		return "UNKNOWN"
	}
	if ReleaseStatus == "released" {
		return Version
	}
	if GitSHA == "" {
		return fmt.Sprintf("%s-unknown", Version)
	}
	if GitTreeState == "dirty" {
		return fmt.Sprintf("%s-%s.dirty", Version, GitSHA)
	}
	return fmt.Sprintf("%s-%s", Version, GitSHA)
}

// GetFullVersionWithRuntimeInfo appends "<GOOS>/<GOARCH>" to GetFullVersion.
func GetFullVersionWithRuntimeInfo() string {
	return fmt.Sprintf("%s %s/%s", GetFullVersion(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent returns the User-Agent header sent by the flow manager's HTTP
// clients.
func UserAgent() string {
	return fmt.Sprintf("flow-manager/%s (%s/%s)", GetVersion().String(), runtime.GOOS, runtime.GOARCH)
}
