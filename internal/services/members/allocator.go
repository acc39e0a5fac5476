package members

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adl-parti/membership-backend/internal/constants"
	svc "github.com/adl-parti/membership-backend/internal/services"
)

const (
	// earliestJoinYear bounds first_join_year from below; party records
	// cannot predate independence.
	earliestJoinYear = 1962

	// allocateRetryBudget caps how many times registration retries after
	// a membership-number unique violation before giving up.
	allocateRetryBudget = 3
)

// DeriveDivisionCode maps a (wilaya name, country) pair to the 2-digit
// division code that opens a membership number. Members abroad all
// share the foreign code. An unknown wilaya name is rejected rather
// than bucketed under a default code: distinct unrecognized names
// silently sharing one (code, year) sequence would collide.
func DeriveDivisionCode(wilaya, country string) (string, error) {
	if !constants.IsHomeCountry(country) {
		return constants.ForeignDivisionCode, nil
	}

	code, ok := constants.WilayaCode(wilaya)
	if !ok {
		return "", &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("unknown wilaya: %q", wilaya),
		}
	}
	return code, nil
}

func validateJoinYear(year int) error {
	if year < earliestJoinYear || year > time.Now().Year()+1 {
		return &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("first join year %d is not a plausible year", year),
		}
	}
	return nil
}

// FormatMembershipNumber renders the canonical 12-character number:
// 2-digit division code, 4-digit year, 6-digit zero-padded sequence.
func FormatMembershipNumber(divisionCode string, year int, sequence int64) string {
	return fmt.Sprintf("%s%04d%06d", divisionCode, year, sequence)
}
