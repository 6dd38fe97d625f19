package anim

import (
	"math"
	"time"
)

// Curve maps linear progress in [0,1] to eased progress in [0,1].
type Curve func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// EaseOut decelerates towards the end (cubic).
func EaseOut(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOut accelerates, then decelerates (cubic).
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// CurveByName resolves a curve name from configuration. Unknown names
// return false.
func CurveByName(name string) (Curve, bool) {
	switch name {
	case "linear":
		return Linear, true
	case "ease-out", "easeout":
		return EaseOut, true
	case "ease-in-out", "easeinout":
		return EaseInOut, true
	}
	return nil, false
}

// Profile is a named duration and curve.
type Profile struct {
	Name     string
	Duration time.Duration
	Curve    Curve
}

// Profiles bundles the three profiles the interaction layer uses.
type Profiles struct {
	Preview Profile
	Commit  Profile
	Revert  Profile
}

// DefaultProfiles returns the stock timings: a quick ease-out for previews,
// a slower ease-out for commits and a quick ease-in-out for reverts.
func DefaultProfiles() Profiles {
	return Profiles{
		Preview: Profile{Name: "preview", Duration: 120 * time.Millisecond, Curve: EaseOut},
		Commit:  Profile{Name: "commit", Duration: 250 * time.Millisecond, Curve: EaseOut},
		Revert:  Profile{Name: "revert", Duration: 180 * time.Millisecond, Curve: EaseInOut},
	}
}
