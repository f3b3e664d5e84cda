package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends the out-of-stock notice to a listing's owner when their stock
// is toggled to zero.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password}
}

// Enabled reports whether SMTP credentials were configured. A disabled mailer
// is left out of the wiring entirely.
func (m *Mailer) Enabled() bool {
	return m.from != "" && m.password != ""
}

func (m *Mailer) SendOutOfStockEmail(toEmail, listingName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Listing out of stock")
	msg.SetBody("text/plain", fmt.Sprintf("Your listing '%s' is now marked as out of stock.", listingName))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
