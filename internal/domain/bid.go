package domain

import "time"

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidApproved BidStatus = "approved"
	BidDenied   BidStatus = "denied"
)

// IsHostDecision indica si el estado puede ser asignado por el host.
func (s BidStatus) IsHostDecision() bool {
	return s == BidApproved || s == BidDenied
}

// BidFields es la oferta que envia quien quiere unirse a una mesa.
type BidFields struct {
	BidAmount       *float64 `json:"bidAmount,omitempty"`
	JoinerName      string   `json:"joinerName,omitempty"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	UserSocialLinks []string `json:"userSocialLinks,omitempty"`
	ReferredBy      string   `json:"referredBy,omitempty"`
	PhotoURI        string   `json:"photoUri,omitempty"`
}

// Bid es una solicitud para unirse a una mesa.
type Bid struct {
	ID      string    `json:"id"`
	TableID string    `json:"tableId"`
	UserID  string    `json:"userId"`
	Status  BidStatus `json:"status"`
	BidFields
	CreatedAt time.Time `json:"createdAt"`
}
