package fitdna

import "strings"

// Code is a 3-letter FIT-DNA type code encoding High/Low per axis, in fixed
// order strength, flexibility, endurance:
//   - 1st letter: P (Power, High) / L (Light, Low)
//   - 2nd letter: F (Flexible, High) / S (Stiff, Low)
//   - 3rd letter: E (Endurance, High) / Q (Quick, Low)
type Code string

const (
	CodePFE Code = "PFE"
	CodePFQ Code = "PFQ"
	CodePSE Code = "PSE"
	CodePSQ Code = "PSQ"
	CodeLFE Code = "LFE"
	CodeLFQ Code = "LFQ"
	CodeLSE Code = "LSE"
	CodeLSQ Code = "LSQ"
)

// DefaultThreshold is the z-score cutoff above which an axis counts as High.
// The classification endpoints use it unless the caller overrides it.
const DefaultThreshold = 0.5

const (
	LevelHigh = "High"
	LevelLow  = "Low"
)

// Classify maps three axis z-scores to a FIT-DNA code by independent
// per-axis thresholding: an axis at or above the threshold is High.
// Pure and total, never fails.
func Classify(strengthZ, flexZ, enduranceZ, threshold float64) Code {
	code := [3]byte{'L', 'S', 'Q'}
	if strengthZ >= threshold {
		code[0] = 'P'
	}
	if flexZ >= threshold {
		code[1] = 'F'
	}
	if enduranceZ >= threshold {
		code[2] = 'E'
	}
	return Code(code[:])
}

// AxisLevels returns the per-axis High/Low labels for the same thresholding
// Classify uses.
func AxisLevels(strengthZ, flexZ, enduranceZ, threshold float64) (strength, flexibility, endurance string) {
	level := func(z float64) string {
		if z >= threshold {
			return LevelHigh
		}
		return LevelLow
	}
	return level(strengthZ), level(flexZ), level(enduranceZ)
}

// TypeDescription is the static description record of one FIT-DNA code.
type TypeDescription struct {
	Code        Code   `json:"code"`
	Name        string `json:"name"`
	Strength    string `json:"strength"`
	Flexibility string `json:"flexibility"`
	Endurance   string `json:"endurance"`
	Description string `json:"description"`
}

var typeDescriptions = map[Code]TypeDescription{
	CodePFE: {
		Code: CodePFE, Name: "All-Round Athlete",
		Strength: LevelHigh, Flexibility: LevelHigh, Endurance: LevelHigh,
		Description: "Strength, flexibility and endurance are all excellent - an ideal, fully balanced fitness profile.",
	},
	CodePFQ: {
		Code: CodePFQ, Name: "Strength & Flexibility Type",
		Strength: LevelHigh, Flexibility: LevelHigh, Endurance: LevelLow,
		Description: "Strength and flexibility are excellent, but endurance needs improvement.",
	},
	CodePSE: {
		Code: CodePSE, Name: "Strength & Endurance Type",
		Strength: LevelHigh, Flexibility: LevelLow, Endurance: LevelHigh,
		Description: "Strength and endurance are excellent, but flexibility needs improvement.",
	},
	CodePSQ: {
		Code: CodePSQ, Name: "Strength Specialist",
		Strength: LevelHigh, Flexibility: LevelLow, Endurance: LevelLow,
		Description: "Strength is excellent, but flexibility and endurance need improvement.",
	},
	CodeLFE: {
		Code: CodeLFE, Name: "Flexibility & Endurance Type",
		Strength: LevelLow, Flexibility: LevelHigh, Endurance: LevelHigh,
		Description: "Flexibility and endurance are excellent, but strength needs improvement.",
	},
	CodeLFQ: {
		Code: CodeLFQ, Name: "Flexibility Specialist",
		Strength: LevelLow, Flexibility: LevelHigh, Endurance: LevelLow,
		Description: "Flexibility is excellent, but strength and endurance need improvement.",
	},
	CodeLSE: {
		Code: CodeLSE, Name: "Endurance Specialist",
		Strength: LevelLow, Flexibility: LevelLow, Endurance: LevelHigh,
		Description: "Endurance is excellent, but strength and flexibility need improvement.",
	},
	CodeLSQ: {
		Code: CodeLSQ, Name: "Full Development Type",
		Strength: LevelLow, Flexibility: LevelLow, Endurance: LevelLow,
		Description: "Strength, flexibility and endurance all need improvement. Start with a balanced routine.",
	},
}

// UnknownTypeDescription is returned by Describe for any code outside the
// 8-element set. Describe never fails on unexpected input.
var UnknownTypeDescription = TypeDescription{
	Name:        "Unknown Type",
	Strength:    "Unknown",
	Flexibility: "Unknown",
	Endurance:   "Unknown",
	Description: "Not a valid FIT-DNA code.",
}

// Describe returns the static description of a FIT-DNA code. Lookup is
// case-insensitive; unknown codes map to the Unknown sentinel.
func Describe(code Code) TypeDescription {
	if desc, ok := typeDescriptions[Code(strings.ToUpper(string(code)))]; ok {
		return desc
	}
	sentinel := UnknownTypeDescription
	sentinel.Code = code
	return sentinel
}

// AllCodes returns the 8 valid FIT-DNA codes in a fixed order.
func AllCodes() []Code {
	return []Code{CodePFE, CodePFQ, CodePSE, CodePSQ, CodeLFE, CodeLFQ, CodeLSE, CodeLSQ}
}

// CompatibleTypes returns types that pair well for shared training: the ones
// differing from the given code in exactly one axis, so partners share two
// axis levels and can cover for the third.
func CompatibleTypes(code Code) []Code {
	if _, ok := typeDescriptions[code]; !ok {
		return nil
	}
	flip := map[byte]byte{'P': 'L', 'L': 'P', 'F': 'S', 'S': 'F', 'E': 'Q', 'Q': 'E'}
	compatible := make([]Code, 0, 3)
	for i := 0; i < 3; i++ {
		flipped := []byte(code)
		flipped[i] = flip[flipped[i]]
		compatible = append(compatible, Code(flipped))
	}
	return compatible
}
