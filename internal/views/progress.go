// Package views turns scan snapshots into the plain data the templates
// render. Nothing in here does I/O except the report dialog, which calls
// out to a Reporter.
package views

import (
	"a11yowl/internal/models"
	"a11yowl/pkg/poller"
)

type Stage struct {
	Key    poller.State
	Label  string
	Active bool
	Done   bool
}

var stages = []struct {
	key   poller.State
	label string
}{
	{poller.StateQueued, "Preparing scan environment"},
	{poller.StateCrawling, "Capturing screenshots & testing navigation"},
	{poller.StateAnalyzing, "AI agents analyzing your site"},
}

// StageItems marks the stage matching state as active and every earlier
// stage as done. States outside the progress sequence show the first stage
// as active.
func StageItems(state poller.State) []Stage {
	current := 0
	for i, s := range stages {
		if s.key == state {
			current = i
			break
		}
	}

	items := make([]Stage, len(stages))
	for i, s := range stages {
		items[i] = Stage{
			Key:    s.key,
			Label:  s.label,
			Active: i == current,
			Done:   i < current,
		}
	}
	return items
}

var failureMessages = map[string]string{
	models.ErrorDNSFailure:    "We couldn't reach this website. Please check the URL and try again.",
	models.ErrorTimeout:       "The scan timed out. The website may be too slow to respond.",
	models.ErrorBotProtection: "This site has bot protection that prevented our scanner from accessing it.",
	models.ErrorLoginWall:     "This site requires login. We can only scan publicly accessible pages.",
}

const genericFailure = "Something went wrong during the scan."

// FailureMessage maps a backend error code to guidance for the visitor.
// Unknown codes are shown as they are.
func FailureMessage(code string) string {
	if code == "" {
		return genericFailure
	}
	if msg, ok := failureMessages[code]; ok {
		return msg
	}
	return code
}
