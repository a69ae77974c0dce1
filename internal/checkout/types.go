package checkout

type Recipient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Street    string `json:"street"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// MemoryType discriminates the single memory a buyer may attach to a gift
type MemoryType string

const (
	MemoryNone  MemoryType = ""
	MemoryVideo MemoryType = "video"
	MemoryPhoto MemoryType = "photo"
	MemoryText  MemoryType = "text"
)

func (m MemoryType) Valid() bool {
	switch m {
	case MemoryVideo, MemoryPhoto, MemoryText:
		return true
	}
	return false
}

// Memory holds at most one attachment; only the fields matching Type are set.
// VideoURL and PhotoURL hold object storage keys or absolute URLs.
type Memory struct {
	Type       MemoryType `json:"memory_type,omitempty"`
	VideoURL   string     `json:"video_url,omitempty"`
	VideoTitle string     `json:"video_title,omitempty"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type Card struct {
	Type  string  `json:"card_type,omitempty"`
	Price float64 `json:"card_price"`
}

type Payment struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
	BillingZip     string `json:"billing_zip,omitempty"`
}

// Masked returns a copy safe to send back to the client
func (p Payment) Masked() Payment {
	masked := p
	masked.CVV = ""
	if n := len(p.CardNumber); n > 4 {
		masked.CardNumber = "**** " + p.CardNumber[n-4:]
	}
	return masked
}

// Session is a snapshot of an in-progress checkout
type Session struct {
	Stage     Stage     `json:"stage"`
	Recipient Recipient `json:"recipient"`
	Card      Card      `json:"card"`
	Memory    Memory    `json:"memory"`
	Payment   Payment   `json:"payment"`
}
