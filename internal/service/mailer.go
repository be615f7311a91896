package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/queue"
	"github.com/iliyamo/hotelhub-pms/internal/utils"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<p>Dear {{.GuestName}},</p>
<p>Your reservation <strong>{{.ReservationID}}</strong> is confirmed.</p>
<ul>
<li>Room {{.RoomNumber}} ({{.RoomType}})</li>
<li>Check-in: {{.CheckInDate}}</li>
<li>Check-out: {{.CheckOutDate}}</li>
<li>Nights: {{.Nights}}</li>
<li>Total: {{.TotalAmount}}</li>
</ul>
<p>Show the attached QR code at the front desk to check in.</p>`))

// Sender delivers a composed message.  *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends booking confirmations with the reservation id as a QR
// code attachment.  It implements queue.Notifier.
type Mailer struct {
	from   string
	sender Sender
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// NewMailerWithSender is NewMailer with a custom transport.
func NewMailerWithSender(from string, s Sender) *Mailer { return &Mailer{from: from, sender: s} }

func (m *Mailer) Notify(_ context.Context, ev queue.BookingConfirmedEvent) error {
	msg, err := m.compose(ev)
	if err != nil {
		return err
	}
	return m.sender.DialAndSend(msg)
}

func (m *Mailer) compose(ev queue.BookingConfirmedEvent) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, ev); err != nil {
		return nil, fmt.Errorf("render confirmation: %w", err)
	}
	qr, err := utils.GenerateQRCode("reservation:"+ev.ReservationID, 256)
	if err != nil {
		return nil, fmt.Errorf("qr for %s: %w", ev.ReservationID, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", ev.GuestEmail)
	msg.SetHeader("Subject", "Reservation confirmed: room "+ev.RoomNumber+", "+ev.CheckInDate)
	msg.SetBody("text/html", body.String())

	filename := fmt.Sprintf("reservation_%s.png", ev.ReservationID)
	msg.Attach(filename, gomail.Rename(filename), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(qr))
		return err
	}))
	return msg, nil
}
