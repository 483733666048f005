package moderation

// Action is the visibility outcome of a moderation decision.
type Action string

const (
	// ActionHidden withholds the comment pending review.
	ActionHidden Action = "hidden"
	// ActionPublished makes the comment publicly visible.
	ActionPublished Action = "published"
)

// Decision records a moderation outcome together with its provenance: the
// probability and the threshold as read at decision time.
type Decision struct {
	Action      Action  `json:"action"`
	Probability float64 `json:"spam_probability"`
	Threshold   float64 `json:"threshold"`
}

// Decide maps a spam probability and the current threshold to a decision.
// The threshold is an inclusive lower bound of the suppress region: a
// probability exactly equal to the threshold is hidden. Borderline content
// is treated conservatively.
func Decide(probability, threshold float64) Decision {
	action := ActionPublished
	if probability >= threshold {
		action = ActionHidden
	}
	return Decision{
		Action:      action,
		Probability: probability,
		Threshold:   threshold,
	}
}
