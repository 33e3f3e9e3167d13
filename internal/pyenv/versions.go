package pyenv

import (
	"fmt"
	"runtime"
	"sort"
)

// platform is an OS/architecture pair for the interpreter catalog.
type platform struct {
	os   string
	arch string
}

// supportedVersions lists the Python minor versions uv can provision
// prebuilt interpreters for on each platform.
var supportedVersions = map[platform][]string{
	{"linux", "amd64"}:   {"3.8", "3.9", "3.10", "3.11", "3.12", "3.13"},
	{"linux", "arm64"}:   {"3.8", "3.9", "3.10", "3.11", "3.12", "3.13"},
	{"darwin", "amd64"}:  {"3.8", "3.9", "3.10", "3.11", "3.12", "3.13"},
	{"darwin", "arm64"}:  {"3.9", "3.10", "3.11", "3.12", "3.13"},
	{"windows", "amd64"}: {"3.8", "3.9", "3.10", "3.11", "3.12", "3.13"},
	{"windows", "arm64"}: {"3.11", "3.12", "3.13"},
}

// SupportedPythonVersions returns the interpreter versions available
// for an OS/arch pair, sorted ascending. Unknown platforms return nil.
func SupportedPythonVersions(goos, goarch string) []string {
	versions, ok := supportedVersions[platform{os: goos, arch: goarch}]
	if !ok {
		return nil
	}
	out := make([]string, len(versions))
	copy(out, versions)
	sort.Strings(out)
	return out
}

// HostSupportedPythonVersions returns the catalog for the running host.
func HostSupportedPythonVersions() []string {
	return SupportedPythonVersions(runtime.GOOS, runtime.GOARCH)
}

// ValidatePythonVersion checks that a requested minor version is
// provisionable on the current host. A full version like "3.11.7" is
// accepted when its minor is supported.
func ValidatePythonVersion(version string) error {
	minor := minorOf(version)
	for _, v := range HostSupportedPythonVersions() {
		if v == minor {
			return nil
		}
	}
	return fmt.Errorf("python %s is not available for %s/%s", version, runtime.GOOS, runtime.GOARCH)
}

// minorOf truncates "3.11.7" to "3.11".
func minorOf(version string) string {
	dots := 0
	for i, r := range version {
		if r == '.' {
			dots++
			if dots == 2 {
				return version[:i]
			}
		}
	}
	return version
}
