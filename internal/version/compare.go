// Package version reports the build version and checks configuration files against it.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// devVersion marks a development build; version checks are skipped for it.
const devVersion = "main"

// CheckVersionCompatibility checks that a configuration file written for
// configVersion can be loaded by an engine at engineVersion.
//
//   - "main" on either side skips the check
//   - major versions must match
//   - the config minor version must not be newer than the engine's
//   - patch versions may differ
//
// Examples:
//   - engine 0.3.0, config 0.3.4 -> OK
//   - engine 0.3.0, config 0.2.0 -> OK
//   - engine 0.3.0, config 0.4.0 -> ERROR (config is newer)
//   - engine 1.0.0, config 0.3.0 -> ERROR (major differs)
func CheckVersionCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if engineVersion == devVersion || configVersion == devVersion {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if engineSemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: engine is %d.x.x but config is %d.x.x",
			engineSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > engineSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "config version %d.%d.x is newer than engine %d.%d.x",
			configSemver.Major(), configSemver.Minor(),
			engineSemver.Major(), engineSemver.Minor())
	}

	return nil
}
