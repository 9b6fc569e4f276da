package dialog

import (
	"regexp"
	"strings"
	"time"
)

// Anchored patterns for free-text answers. Steps answered by fixed buttons
// carry no pattern and accept the button label only.
var (
	teamIDPattern = regexp.MustCompile(`^([1-9]|[12][0-9]|30)$`)
	seasonPattern = regexp.MustCompile(`^\d{4}$`)
	datePattern   = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])-(0[1-9]|1[012])-((19|20)\d\d)$`)
	rangePattern  = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])-(0[1-9]|1[012])-((19|20)\d\d) (0[1-9]|[12][0-9]|3[01])-(0[1-9]|1[012])-((19|20)\d\d)$`)
	namePattern   = regexp.MustCompile(`^[a-zA-Z ]+$`)
	gameIDPattern = regexp.MustCompile(`^\d+$`)
)

// userDateLayout is the date format users type; wireDateLayout is what the
// stats API expects.
const (
	userDateLayout = "02-01-2006"
	wireDateLayout = "2006-01-02"
)

// ValidAnswer checks a free-text answer against the step's pattern. Steps
// without a pattern accept anything. Date ranges additionally require the end
// not to precede the start; such ranges are rejected here and never reach the
// upstream API.
func ValidAnswer(st *Step, text string) bool {
	if st.Pattern == nil {
		return true
	}
	if !st.Pattern.MatchString(text) {
		return false
	}
	if st.ID == StepDateRange {
		return validRange(text)
	}
	return true
}

func validRange(text string) bool {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) != 2 {
		return false
	}
	start, err := time.Parse(userDateLayout, parts[0])
	if err != nil {
		return false
	}
	end, err := time.Parse(userDateLayout, parts[1])
	if err != nil {
		return false
	}
	return !end.Before(start)
}

// WireDate converts a validated DD-MM-YYYY answer to the YYYY-MM-DD wire form.
func WireDate(text string) (string, error) {
	t, err := time.Parse(userDateLayout, text)
	if err != nil {
		return "", err
	}
	return t.Format(wireDateLayout), nil
}
