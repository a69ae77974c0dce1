package checkout

import (
	"strings"
)

// ValidationError lists the required fields a stage is still missing
type ValidationError struct {
	Stage  Stage
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required " + e.Stage.String() + " fields: " + strings.Join(e.Fields, ", ")
}

type requiredField struct {
	name  string
	value string
}

func missing(fields ...requiredField) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

func validateRecipient(r Recipient) []string {
	return missing(
		requiredField{"first_name", r.FirstName},
		requiredField{"last_name", r.LastName},
		requiredField{"street", r.Street},
		requiredField{"city", r.City},
		requiredField{"state", r.State},
		requiredField{"zip", r.Zip},
		requiredField{"country", r.Country},
	)
}

func validatePayment(p Payment) []string {
	return missing(
		requiredField{"cardholder_name", p.CardholderName},
		requiredField{"card_number", p.CardNumber},
		requiredField{"expiry", p.Expiry},
		requiredField{"cvv", p.CVV},
	)
}

func validateMemory(m Memory) []string {
	switch m.Type {
	case MemoryVideo:
		return missing(requiredField{"video_url", m.VideoURL})
	case MemoryPhoto:
		return missing(requiredField{"photo_url", m.PhotoURL})
	case MemoryText:
		return missing(requiredField{"message", m.Message})
	}
	return nil
}

// validateStage returns the fields that block leaving stage s
func validateStage(s Session) []string {
	switch s.Stage {
	case StageRecipient:
		return validateRecipient(s.Recipient)
	case StageMemory:
		return validateMemory(s.Memory)
	case StagePayment:
		return validatePayment(s.Payment)
	}
	return nil
}
