// Package scoring turns backend scores and sample issues into the verdicts
// and estimates shown on the results page.
package scoring

// Tone is the color family a verdict is rendered in.
type Tone string

const (
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
)

// Kind selects which copy accompanies a score.
type Kind string

const (
	KindCompliance Kind = "compliance"
	KindAIO        Kind = "aio"
)

type Verdict struct {
	Label string
	Tone  Tone
	Color string
}

// Classify applies the same thresholds to both score kinds.
func Classify(score float64) Verdict {
	switch {
	case score < 50:
		return Verdict{Label: "High Risk", Tone: ToneDanger, Color: "#DC2626"}
	case score < 80:
		return Verdict{Label: "Needs Work", Tone: ToneWarning, Color: "#D97706"}
	default:
		return Verdict{Label: "Looking Good", Tone: ToneSuccess, Color: "#059669"}
	}
}

// Context returns the explanatory sentence shown under a score.
func Context(score float64, kind Kind) string {
	if kind == KindCompliance {
		switch {
		case score < 50:
			return "Your site has significant accessibility gaps that could expose you to ADA litigation."
		case score < 80:
			return "Your site has moderate accessibility issues. Addressing the critical ones first will reduce your risk."
		default:
			return "Your site meets most accessibility standards. Focus on the remaining issues to stay ahead."
		}
	}

	switch {
	case score < 50:
		return "AI search engines will struggle to read and cite your content."
	case score < 80:
		return "Your site has partial AI readability. Fixing structural issues will improve discoverability."
	default:
		return "Your site is well-structured for AI discovery. Keep it up."
	}
}
