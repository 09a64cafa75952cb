package release

import "regexp"

const VersionUnknown = "N/A"

// an optional "v" followed by one to four dot separated digit groups, e.g. v2.3.1
var versionExpr = regexp.MustCompile(`[vV]?(\d+(?:\.\d+){0,3})`)

// ExtractVersion returns the first version-like token of filename without its "v" prefix.
func ExtractVersion(filename string) string {
	match := versionExpr.FindStringSubmatch(filename)
	if match == nil {
		return VersionUnknown
	}
	return match[1]
}
