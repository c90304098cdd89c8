package catalog

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// compareVersions orders two version ids. Ids that parse as semver
// ("1.20" is read as 1.20.0) compare numerically and rank above ids that
// do not; unparsable pairs fall back to string order.
func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)

	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortDescending returns a copy of versions ordered newest first.
func SortDescending(versions []string) []string {
	out := make([]string, len(versions))
	copy(out, versions)
	sort.SliceStable(out, func(i, j int) bool {
		return compareVersions(out[i], out[j]) > 0
	})
	return out
}

// newestVersion picks the highest semver id. When no id parses, the
// upstream order is trusted and the last element wins. Among equal
// versions the later entry wins. versions must be non-empty.
func newestVersion(versions []string) string {
	best := ""
	var bestV *semver.Version
	for _, v := range versions {
		parsed, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if bestV == nil || !parsed.LessThan(bestV) {
			best, bestV = v, parsed
		}
	}
	if bestV == nil {
		return versions[len(versions)-1]
	}
	return best
}

// newestBuild returns the numeric maximum. builds must be non-empty.
func newestBuild(builds []int) int {
	best := builds[0]
	for _, b := range builds[1:] {
		if b > best {
			best = b
		}
	}
	return best
}
