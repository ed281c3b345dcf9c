package linkcheck

import "fmt"

// LocationBody tags links harvested from the page's main content region.
const LocationBody = "Body"

// NoText labels a link that has no visible text, aria-label or title.
const NoText = "[no text]"

// LinkRecord is one anchor found on the origin page.
// Records are created by a harvest and never modified afterwards.
type LinkRecord struct {
	ID       string // unique within a single harvest, not across runs
	Href     string // resolved absolute target
	Raw      string // href attribute as written in the markup
	Text     string
	Location string
	Index    int // 0-based position in document order
}

// Kind identifies the variant held by an Outcome.
type Kind int

const (
	Skipped Kind = iota
	Working
	Broken
	Errored
)

func (k Kind) String() string {
	switch k {
	case Skipped:
		return "skipped"
	case Working:
		return "working"
	case Broken:
		return "broken"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of checking one link.
// Status is set for Working and Broken (0 means no status was received),
// Message only for Errored.
type Outcome struct {
	Kind    Kind
	Status  int
	Message string
}

// SkippedOutcome, WorkingOutcome, BrokenOutcome and ErroredOutcome build the
// four Outcome variants.
func SkippedOutcome() Outcome { return Outcome{Kind: Skipped} }

func WorkingOutcome(status int) Outcome { return Outcome{Kind: Working, Status: status} }

func BrokenOutcome(status int) Outcome { return Outcome{Kind: Broken, Status: status} }

func ErroredOutcome(msg string) Outcome { return Outcome{Kind: Errored, Message: msg} }

// Failed reports whether the outcome needs evidence captured.
func (o Outcome) Failed() bool {
	return o.Kind == Broken || o.Kind == Errored
}

// Label is the short status text used in banners and screenshot names.
func (o Outcome) Label() string {
	switch o.Kind {
	case Working, Broken:
		if o.Status == 0 {
			return "no status"
		}
		return fmt.Sprintf("status %d", o.Status)
	case Errored:
		return "error"
	default:
		return "skipped"
	}
}

// Result pairs a harvested link with its outcome.
// Screenshot is empty when no evidence was captured.
type Result struct {
	Link       LinkRecord
	Outcome    Outcome
	Screenshot string
}
