package models

// ResolutionOutcome tags the result of resolving a pointer filename.
type ResolutionOutcome int

// Resolution outcomes. Every caller must handle all three.
const (
	Resolved ResolutionOutcome = iota
	NotFound
	Ambiguous
)

// String returns a lowercase name for the outcome.
func (o ResolutionOutcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not-found"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Resolution is the tagged result of mapping a pointer filename to a file.
// Path is set only when Outcome is Resolved; Candidates only when Ambiguous.
type Resolution struct {
	Outcome    ResolutionOutcome
	Path       string   // Repository-relative path of the resolved file
	Candidates []string // Sorted repository-relative candidates when ambiguous
}

// ResolvedTo returns a Resolved outcome for path.
func ResolvedTo(path string) Resolution {
	return Resolution{Outcome: Resolved, Path: path}
}

// Unresolved returns a NotFound outcome.
func Unresolved() Resolution {
	return Resolution{Outcome: NotFound}
}

// AmbiguousAmong returns an Ambiguous outcome carrying every candidate.
func AmbiguousAmong(candidates []string) Resolution {
	c := make([]string, len(candidates))
	copy(c, candidates)
	return Resolution{Outcome: Ambiguous, Candidates: c}
}
