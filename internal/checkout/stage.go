package checkout

import "fmt"

// Stage is a step of the checkout wizard. Stages are visited in order.
type Stage int

const (
	StageCartReview Stage = iota
	StageRecipient
	StageMemory
	StagePayment
	StageConfirmation
)

var stageNames = [...]string{
	StageCartReview:   "cart_review",
	StageRecipient:    "recipient",
	StageMemory:       "memory",
	StagePayment:      "payment",
	StageConfirmation: "confirmation",
}

func (s Stage) String() string {
	if s < StageCartReview || s > StageConfirmation {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	for i, name := range stageNames {
		if name == string(text) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown checkout stage %q", text)
}

func (s Stage) next() (Stage, bool) {
	if s >= StageConfirmation {
		return s, false
	}
	return s + 1, true
}

func (s Stage) prev() (Stage, bool) {
	if s <= StageCartReview {
		return s, false
	}
	return s - 1, true
}
