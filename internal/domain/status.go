package domain

// Label is the derived, never-stored status of a book.
type Label string

const (
	LabelReading   Label = "Reading"
	LabelCompleted Label = "Completed"
	LabelLater     Label = "Later"
)

// MilestoneThresholds are the fixed progress badges, ascending.
var MilestoneThresholds = [...]int{25, 50, 75, 100}

// Milestone reports whether a progress threshold has been reached.
type Milestone struct {
	Threshold int  `json:"threshold"`
	Reached   bool `json:"reached"`
}

// StatusOf derives the status label of a book.
// Completion always wins: a finished book flagged "later" is Completed.
func StatusOf(b Book) Label {
	if b.CurrentPage >= b.TotalPages {
		return LabelCompleted
	}
	if b.Status == StatusLater {
		return LabelLater
	}
	return LabelReading
}

// ProgressPercentage returns round(current/total*100), half-up, within [0, 100].
// A book without pages reports 0.
func ProgressPercentage(b Book) int {
	if b.TotalPages <= 0 {
		return 0
	}
	current := b.CurrentPage
	if current <= 0 {
		return 0
	}
	if current >= b.TotalPages {
		return 100
	}
	// Integer half-up rounding of current*100/total.
	return (current*200 + b.TotalPages) / (2 * b.TotalPages)
}

// Milestones lists every threshold with its reached flag, ascending.
func Milestones(b Book) []Milestone {
	pct := ProgressPercentage(b)
	out := make([]Milestone, 0, len(MilestoneThresholds))
	for _, threshold := range MilestoneThresholds {
		out = append(out, Milestone{Threshold: threshold, Reached: pct >= threshold})
	}
	return out
}

// View is a book plus its derived fields, as handed to presentation code.
type View struct {
	Book
	Label      Label       `json:"label"`
	Progress   int         `json:"progress"`
	Milestones []Milestone `json:"milestones"`
}

// NewView computes the derived fields of b.
func NewView(b Book) View {
	return View{
		Book:       b,
		Label:      StatusOf(b),
		Progress:   ProgressPercentage(b),
		Milestones: Milestones(b),
	}
}
