package email

// Message is one booking notification. BookingID, when set, is sent as the
// X-Booking-Id header so replies and bounces can be traced to the booking.
type Message struct {
	To        []string
	ReplyTo   string
	Subject   string
	TextBody  string
	HTMLBody  string
	BookingID string
}
