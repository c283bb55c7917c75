package patient

import "time"

// Patient is a clinic patient record. The ID is the opaque identifier printed
// on the patient card; barcode and QR scans resolve to it or to the card
// number as plain text, with no format imposed by this package.
type Patient struct {
	ID          string    `json:"id"`
	CardNumber  string    `json:"card_number"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	PhoneNumber string    `json:"phone_number"`
	CNIC        string    `json:"cnic"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
