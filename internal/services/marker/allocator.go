// Package marker decides which play token a newly promoted client receives.
package marker

import "github.com/lexc24/tictactoe/internal/model"

// Next returns the marker for the next promoted client, given the records
// that are currently active.
//
// The policy fills the free slot rather than alternating: a disconnect can
// free X specifically while O stays held, and alternation would hand out a
// duplicate O. Returns model.ErrNoSlotAvailable when both markers are taken;
// callers are expected to have checked the active count first.
func Next(active []model.ClientRecord) (model.Marker, error) {
	var haveX, haveO bool
	for _, rec := range active {
		switch rec.Marker {
		case model.MarkerX:
			haveX = true
		case model.MarkerO:
			haveO = true
		}
	}

	if !haveX {
		return model.MarkerX, nil
	}
	if !haveO {
		return model.MarkerO, nil
	}
	return model.MarkerNone, model.ErrNoSlotAvailable
}
