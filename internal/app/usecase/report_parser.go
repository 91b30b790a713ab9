package usecase

import "strings"

// ReportBody is the task text extracted from a #report message.
type ReportBody struct {
	Completed []string
	Pending   []string
	Plan      []string
}

func (b ReportBody) Empty() bool {
	return len(b.Completed) == 0 && len(b.Pending) == 0 && len(b.Plan) == 0
}

type section int

const (
	sectionNone section = iota
	sectionCompleted
	sectionPending
	sectionPlan
)

var sectionPrefixes = []struct {
	prefix  string
	section section
}{
	{"done:", sectionCompleted},
	{"completed:", sectionCompleted},
	{"pending:", sectionPending},
	{"plan:", sectionPlan},
	{"next:", sectionPlan},
	{"tomorrow:", sectionPlan},
}

var bullets = []string{"- ", "* ", "• "}

// ParseReportBody reads one task per line. "done: x", "pending: x" and "plan: x" add x to
// the matching list, and a bare "Done:" heading makes the following bullet or plain lines
// belong to that list. Lines before the first heading are ignored.
func ParseReportBody(body string) ReportBody {
	var out ReportBody
	current := sectionNone

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if s, rest, ok := matchSection(line); ok {
			current = s
			out.add(current, rest)
			continue
		}

		for _, b := range bullets {
			if strings.HasPrefix(line, b) {
				line = strings.TrimSpace(line[len(b):])
				break
			}
		}
		out.add(current, line)
	}
	return out
}

func matchSection(line string) (section, string, bool) {
	lower := strings.ToLower(line)
	for _, p := range sectionPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.section, strings.TrimSpace(line[len(p.prefix):]), true
		}
	}
	return sectionNone, "", false
}

func (b *ReportBody) add(s section, text string) {
	if text == "" {
		return
	}
	switch s {
	case sectionCompleted:
		b.Completed = append(b.Completed, text)
	case sectionPending:
		b.Pending = append(b.Pending, text)
	case sectionPlan:
		b.Plan = append(b.Plan, text)
	}
}
