package notify

import (
	"fmt"
	"strings"
)

// renderBatch builds the subject/body of one batched message for a single
// event class. Plain text only -- unlike the teacher's decision-point email
// (internal/notification/email.go), these are operational digests, not
// end-user-facing HTML.
func renderBatch(class Class, events []Event) (subject, body string) {
	subject = fmt.Sprintf("[ltzfd] %s (%d)", class.String(), len(events))

	var b strings.Builder
	fmt.Fprintf(&b, "%d %s event(s) in the last batch:\n\n", len(events), class.String())
	for _, ev := range events {
		fmt.Fprintf(&b, "- %s", ev.Message)
		if len(ev.ApiIDs) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(ev.ApiIDs, ", "))
		}
		fmt.Fprintf(&b, " (%s)\n", ev.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	}
	return subject, b.String()
}
