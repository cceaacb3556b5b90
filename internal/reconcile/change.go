package reconcile

import (
	"github.com/Masterminds/semver/v3"
	"github.com/ralt/rhinopackages/internal/models"
)

// Change describes what moved in an updated package
type Change string

const (
	ChangeUpgrade   Change = "upgrade"
	ChangeDowngrade Change = "downgrade"
	ChangeVersion   Change = "version"
	ChangeDownloads Change = "downloads"
)

// describeChange explains an update for logs. Versions that are not semver
// are reported as a plain version change.
func describeChange(prior, candidate *models.Package) Change {
	if prior.Version == candidate.Version {
		return ChangeDownloads
	}

	from, err := semver.NewVersion(prior.Version)
	if err != nil {
		return ChangeVersion
	}
	to, err := semver.NewVersion(candidate.Version)
	if err != nil {
		return ChangeVersion
	}

	switch from.Compare(to) {
	case -1:
		return ChangeUpgrade
	case 1:
		return ChangeDowngrade
	default:
		// Equal precedence, e.g. differing only in build metadata
		return ChangeVersion
	}
}
