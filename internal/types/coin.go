package types

import (
	"regexp"

	"github.com/rxtech-lab/coinlab/pkg/errors"
)

var coinIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateCoinID checks that id is a market-data coin id such as "bitcoin" or "usd-coin".
// Ids end up in file names and URLs, so anything beyond lowercase letters, digits
// and hyphens is rejected.
func ValidateCoinID(id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeMissingParameter, "coin id is required")
	}

	if !coinIDPattern.MatchString(id) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "invalid coin id %q: use lowercase letters, digits and hyphens", id)
	}

	return nil
}
