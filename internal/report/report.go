package report

import (
	"github.com/yingtu35/link-sentry/internal/linkcheck"
)

// Entry is one checked link as it appears in the report.
type Entry struct {
	ID         string   `json:"id" csv:"ID"`
	Href       string   `json:"href" csv:"URL"`
	Text       string   `json:"text" csv:"Text"`
	Location   string   `json:"location" csv:"Location"`
	Index      int      `json:"index" csv:"Index"`
	Outcome    string   `json:"outcome" csv:"Outcome"`
	Status     int      `json:"status,omitempty" csv:"Status"`
	Error      string   `json:"error,omitempty" csv:"Error"`
	Category   Category `json:"category,omitempty" csv:"Category"`
	Screenshot string   `json:"screenshot,omitempty" csv:"Screenshot"`
}

// Report is the summary of one run. Build it with Build; it is not
// modified afterwards.
type Report struct {
	Working []Entry `json:"working"`
	Broken  []Entry `json:"broken"`
	Total   int     `json:"total"`
}

// Build partitions results into working and broken entries, keeping their
// order. Skipped links count as working.
func Build(results []linkcheck.Result) *Report {
	r := &Report{
		Working: []Entry{},
		Broken:  []Entry{},
		Total:   len(results),
	}
	for _, res := range results {
		e := newEntry(res)
		if res.Outcome.Failed() {
			r.Broken = append(r.Broken, e)
		} else {
			r.Working = append(r.Working, e)
		}
	}
	return r
}

func newEntry(res linkcheck.Result) Entry {
	e := Entry{
		ID:         res.Link.ID,
		Href:       res.Link.Href,
		Text:       res.Link.Text,
		Location:   res.Link.Location,
		Index:      res.Link.Index,
		Outcome:    res.Outcome.Kind.String(),
		Status:     res.Outcome.Status,
		Error:      res.Outcome.Message,
		Screenshot: res.Screenshot,
	}
	if res.Outcome.Failed() {
		e.Category = Categorize(res.Outcome)
	}
	return e
}

// HasBroken reports whether any link failed.
func (r *Report) HasBroken() bool {
	return len(r.Broken) > 0
}

// StatusText is the human-readable status of an entry.
func (e Entry) StatusText() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Status != 0:
		return itoa(e.Status)
	case e.Outcome == linkcheck.Skipped.String():
		return "skipped"
	default:
		return "no status"
	}
}
