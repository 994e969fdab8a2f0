package orchestrators

import "dojo/internal/domain/apperr"

// notFoundAs replaces a missing-row error with the refusal shown to the user.
// Any other lookup failure is returned unchanged so it surfaces as a store error.
func notFoundAs(err, refusal error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return refusal
	}
	return err
}
