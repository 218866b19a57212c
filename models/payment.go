package models

// PaymentRequest asks the payment capability to start collecting the
// server-confirmed total for one booking.
type PaymentRequest struct {
	BookingID string  `json:"bookingId"`
	UserID    string  `json:"userId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// PaymentSession is the opaque result of payment initiation: where to
// send the user, and a reference for reconciliation.
type PaymentSession struct {
	RedirectURL string `json:"redirectUrl"`
	Reference   string `json:"reference"`
}
