package models

// CardRequest selects the greeting card add-on. An empty CardType removes it;
// a missing CardPrice uses the configured card price.
type CardRequest struct {
	CardType  string   `json:"card_type"`
	CardPrice *float64 `json:"card_price"`
}

// MemoryRequest attaches a memory whose media is already hosted, or a text
// message
type MemoryRequest struct {
	MemoryType string `json:"memory_type" binding:"required,oneof=video photo text"`
	VideoURL   string `json:"video_url"`
	VideoTitle string `json:"video_title"`
	PhotoURL   string `json:"photo_url"`
	Message    string `json:"message"`
}

// StageResponse reports the checkout stage after a transition
type StageResponse struct {
	Stage string `json:"stage"`
}
