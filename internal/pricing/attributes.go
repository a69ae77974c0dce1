package pricing

import (
	"encoding/json"

	"giftyy-backend/internal/models"
)

const formatCombination = "combination"

type rawAttributes struct {
	Format       string            `json:"format"`
	Combinations []json.RawMessage `json:"combinations"`
	Options      []json.RawMessage `json:"options"`
}

// ParseAttributes decodes a stored variation attribute document into its
// shape. Anything that does not decode cleanly is FlatAttributes, and
// individual combinations or options that fail to decode are dropped.
func ParseAttributes(raw []byte) models.VariationAttributes {
	if len(raw) == 0 {
		return models.FlatAttributes{}
	}

	var doc rawAttributes
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.FlatAttributes{}
	}

	if doc.Format == formatCombination {
		combos := make([]models.Combination, 0, len(doc.Combinations))
		for _, rc := range doc.Combinations {
			var combo models.Combination
			if err := json.Unmarshal(rc, &combo); err != nil {
				continue
			}
			combos = append(combos, combo)
		}
		return models.CombinationAttributes{Combinations: combos}
	}

	if doc.Options != nil {
		opts := make([]models.VariationOption, 0, len(doc.Options))
		for _, ro := range doc.Options {
			var opt models.VariationOption
			if err := json.Unmarshal(ro, &opt); err != nil {
				// plain string options carry no price
				continue
			}
			opts = append(opts, opt)
		}
		return models.OptionAttributes{Options: opts}
	}

	return models.FlatAttributes{}
}
