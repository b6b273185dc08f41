// Package barcode validates payloads against their symbology rules and
// emits printer-native barcode command sequences.
package barcode

import (
	"fmt"
	"strings"
)

// Symbology identifies a barcode encoding scheme supported by the printer.
type Symbology string

const (
	CODE39  Symbology = "CODE39"
	CODE128 Symbology = "CODE128"
	EAN13   Symbology = "EAN13"
	EAN8    Symbology = "EAN8"
	UPCA    Symbology = "UPC_A"
	ITF     Symbology = "ITF"
)

// HRIPosition controls where the human-readable text prints relative to
// the bars. Values are the wire values of the HRI position command.
type HRIPosition int

const (
	HRINone HRIPosition = iota
	HRIAbove
	HRIBelow
	HRIBoth
)

// HRIFont selects the printer font used for the human-readable text.
type HRIFont int

const (
	HRIFontA HRIFont = iota
	HRIFontB
)

// Options configures barcode rendering. The zero value is not useful;
// start from DefaultOptions and override fields as needed.
type Options struct {
	HeightDots  int // bar height in dots, clamped to [1,255]
	ModuleWidth int // narrow bar width in dots, clamped to [2,6]
	HRIPosition HRIPosition
	HRIFont     HRIFont
	FeedLines   int // line feeds appended after the symbol
}

// DefaultOptions returns the rendering defaults used on the store
// receipts: 162-dot bars, 3-dot modules, no HRI text, two trailing feeds.
func DefaultOptions() Options {
	return Options{
		HeightDots:  162,
		ModuleWidth: 3,
		HRIPosition: HRINone,
		HRIFont:     HRIFontA,
		FeedLines:   2,
	}
}

// ValidationError reports a payload that fails its symbology's character
// or length rules. Validation always runs before encoding, so a payload
// that fails is never partially encoded.
type ValidationError struct {
	Symbology Symbology
	Rule      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.Symbology, e.Rule)
}

// code39Charset is the full set CODE39 can express. The space is part of
// the set; the asterisk is a start/stop marker and deliberately excluded.
const code39Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// Validate checks payload against the rules of sym. Unrecognized
// symbologies are encoded with the CODE128 type code, so they validate
// under CODE128's rule as well.
func Validate(payload string, sym Symbology) error {
	switch sym {
	case CODE39:
		for i := 0; i < len(payload); i++ {
			if strings.IndexByte(code39Charset, payload[i]) < 0 {
				return &ValidationError{Symbology: sym, Rule: fmt.Sprintf("character %q outside the CODE39 set", payload[i])}
			}
		}
		return nil
	case EAN13:
		return numericExact(sym, payload, 12, 13)
	case EAN8:
		return numericExact(sym, payload, 7, 8)
	case UPCA:
		return numericExact(sym, payload, 11, 12)
	case ITF:
		if !digitsOnly(payload) {
			return &ValidationError{Symbology: sym, Rule: "digits only"}
		}
		if len(payload) == 0 || len(payload)%2 != 0 {
			return &ValidationError{Symbology: sym, Rule: fmt.Sprintf("even digit count required, got %d", len(payload))}
		}
		return nil
	default: // CODE128 and anything routed to its type code
		if len(payload) == 0 {
			return &ValidationError{Symbology: sym, Rule: "payload must not be empty"}
		}
		return nil
	}
}

// numericExact accepts payloads of decimal digits exactly lo or hi long.
func numericExact(sym Symbology, payload string, lo, hi int) error {
	if !digitsOnly(payload) {
		return &ValidationError{Symbology: sym, Rule: "digits only"}
	}
	if len(payload) != lo && len(payload) != hi {
		return &ValidationError{Symbology: sym, Rule: fmt.Sprintf("exactly %d or %d digits required, got %d", lo, hi, len(payload))}
	}
	return nil
}

func digitsOnly(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseHRIPosition maps a config or API string onto an HRI position.
// Unknown values fall back to HRINone.
func ParseHRIPosition(s string) HRIPosition {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above":
		return HRIAbove
	case "below":
		return HRIBelow
	case "both":
		return HRIBoth
	default:
		return HRINone
	}
}

// ParseHRIFont maps a config or API string onto an HRI font, defaulting
// to font A.
func ParseHRIFont(s string) HRIFont {
	if strings.EqualFold(strings.TrimSpace(s), "b") {
		return HRIFontB
	}
	return HRIFontA
}

// ParseSymbology maps document/API names onto Symbology values. Matching
// is case-insensitive and tolerates the underscore-less "UPCA" spelling.
func ParseSymbology(s string) (Symbology, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CODE39":
		return CODE39, nil
	case "CODE128":
		return CODE128, nil
	case "EAN13":
		return EAN13, nil
	case "EAN8":
		return EAN8, nil
	case "UPC_A", "UPCA":
		return UPCA, nil
	case "ITF":
		return ITF, nil
	default:
		return "", fmt.Errorf("unknown symbology %q", s)
	}
}
