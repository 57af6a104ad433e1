package domain

import "time"

// OTPChallenge es el codigo pendiente de un telefono. Existe a lo sumo uno por numero.
type OTPChallenge struct {
	PhoneNumber string    `json:"phoneNumber"`
	CodeHash    string    `json:"codeHash"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (c OTPChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
