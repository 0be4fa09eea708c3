// Package analytics records visitor interactions. Nothing is recorded unless
// the visitor has granted consent.
package analytics

import "strings"

// ConsentCookie holds the visitor's answer to the cookie banner.
const ConsentCookie = "analyticsConsent"

type Consent int

const (
	ConsentUnset Consent = iota
	ConsentGranted
	ConsentDenied
)

func ParseConsent(raw string) Consent {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "granted", "true", "accepted":
		return ConsentGranted
	case "denied", "false", "declined":
		return ConsentDenied
	default:
		return ConsentUnset
	}
}

func (c Consent) String() string {
	switch c {
	case ConsentGranted:
		return "granted"
	case ConsentDenied:
		return "denied"
	default:
		return "unset"
	}
}

// Allows is true only for an explicit grant.
func (c Consent) Allows() bool { return c == ConsentGranted }

// Decided is false until the visitor has answered the banner.
func (c Consent) Decided() bool { return c != ConsentUnset }
