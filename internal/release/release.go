// Package release compares the running KRN-08 version against the release feed.
package release

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	krnerrors "github.com/terassyi/krn08/internal/errors"
)

// Status is the outcome of a release check.
type Status int

const (
	// UpToDate means the running version is the newest known release.
	UpToDate Status = iota
	// UpdateAvailable means the feed lists a newer release.
	UpdateAvailable
)

func (s Status) String() string {
	switch s {
	case UpToDate:
		return "up-to-date"
	case UpdateAvailable:
		return "update-available"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes a completed check.
type Result struct {
	Status  Status
	Current string
	Latest  string
}

// Message renders the result as a console line.
func (r Result) Message() string {
	if r.Status == UpdateAvailable {
		return fmt.Sprintf("Update available: v%s (installed v%s).", r.Latest, r.Current)
	}
	return fmt.Sprintf("KRN-08 v%s is up to date.", r.Current)
}

// Feed supplies the newest published version.
type Feed interface {
	LatestRelease() string
}

// Check compares current against the newest version of feed.
// A leading "v" is accepted on both sides.
func Check(current string, feed Feed) (Result, error) {
	cur, err := parse("current", current)
	if err != nil {
		return Result{}, err
	}
	latest, err := parse("latest", feed.LatestRelease())
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Status:  UpToDate,
		Current: cur.String(),
		Latest:  latest.String(),
	}
	if latest.GreaterThan(cur) {
		res.Status = UpdateAvailable
	}
	return res, nil
}

func parse(field, version string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil, krnerrors.NewValidationError("release", field, "semantic version", version)
	}
	return v, nil
}
