package domain

import "time"

// TableFields agrupa los datos descriptivos que envia el host al publicar una mesa.
type TableFields struct {
	TableName                  string   `json:"tableName,omitempty"`
	HostName                   string   `json:"hostName,omitempty"`
	ClubName                   string   `json:"clubName,omitempty"`
	ReservationDate            string   `json:"reservationDate,omitempty"`
	AvailableSpots             *int     `json:"availableSpots,omitempty"`
	MinJoiningFee              *float64 `json:"minJoiningFee,omitempty"`
	HostPhoneNumber            string   `json:"hostPhoneNumber,omitempty"`
	HostSocialLinks            []string `json:"hostSocialLinks,omitempty"`
	HostBio                    string   `json:"hostBio,omitempty"`
	TableDetails               string   `json:"tableDetails,omitempty"`
	ReservationConfirmationURI string   `json:"reservationConfirmationUri,omitempty"`
}

// Table es una reserva publicada por un host.
type Table struct {
	ID     string `json:"id"`
	HostID string `json:"hostId"`
	TableFields
	CreatedAt time.Time `json:"createdAt"`
}
