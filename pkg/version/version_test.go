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
	"runtime"
	"testing"

	"github.com/blang/semver"
	"github.com/stretchr/testify/assert"
)

func setVersion(t *testing.T, version, sha, treeState, releaseStatus string) {
	oldVersion, oldSHA, oldTreeState, oldReleaseStatus := Version, GitSHA, GitTreeState, ReleaseStatus
	t.Cleanup(func() {
		Version, GitSHA, GitTreeState, ReleaseStatus = oldVersion, oldSHA, oldTreeState, oldReleaseStatus
	})
	Version, GitSHA, GitTreeState, ReleaseStatus = version, sha, treeState, releaseStatus
}

func TestGetFullVersion(t *testing.T) {
	tests := []struct {
		name          string
		version       string
		sha           string
		treeState     string
		releaseStatus string
		expected      string
	}{
		{name: "unset", expected: "UNKNOWN"},
		{name: "released", version: "v0.3.0", sha: "abcdef", releaseStatus: "released", expected: "v0.3.0"},
		{name: "no git", version: "v0.3.0", releaseStatus: "unreleased", expected: "v0.3.0-unknown"},
		{name: "dirty", version: "v0.3.0", sha: "abcdef", treeState: "dirty", releaseStatus: "unreleased", expected: "v0.3.0-abcdef.dirty"},
		{name: "clean", version: "v0.3.0", sha: "abcdef", treeState: "clean", releaseStatus: "unreleased", expected: "v0.3.0-abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVersion(t, tt.version, tt.sha, tt.treeState, tt.releaseStatus)
			assert.Equal(t, tt.expected, GetFullVersion())
		})
	}
}

func TestGetVersion(t *testing.T) {
	setVersion(t, "v1.2.3", "", "", "released")
	assert.Equal(t, semver.MustParse("1.2.3"), GetVersion())
	assert.Equal(t, "flow-manager/1.2.3 ("+runtime.GOOS+"/"+runtime.GOARCH+")", UserAgent())

	setVersion(t, "", "", "", "released")
	assert.Equal(t, semver.Version{}, GetVersion())

	setVersion(t, "not-a-version", "", "", "released")
	assert.Equal(t, semver.Version{}, GetVersion())
}
