// services/notify.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"garagebill-backend/billing"
	"garagebill-backend/models"
	"garagebill-backend/utils"
)

// Notifier texts the customer a short summary of a saved invoice.
// It is inert unless the Twilio environment is configured; a failed
// send is logged and never fails the save that triggered it.
type Notifier struct {
	client  *twilio.RestClient
	from    string
	waFrom  string
	enabled bool
}

func NewNotifier() *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")

	n := &Notifier{
		from:    from,
		waFrom:  os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		enabled: accountSid != "" && authToken != "" && from != "",
	}
	if n.enabled {
		n.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	}
	return n
}

func (n *Notifier) Enabled() bool {
	return n.enabled
}

// SendInvoiceSummary messages the invoice total to the customer phone.
// WhatsApp is used for E.164 numbers when a WhatsApp sender is
// configured, SMS otherwise.
func (n *Notifier) SendInvoiceSummary(inv models.Invoice, profile models.CompanyProfile) {
	if !n.enabled || inv.CustomerPhone == "" {
		return
	}
	if !utils.ValidatePhone(inv.CustomerPhone) {
		log.Printf("notify: skipping invoice %s, phone %q not sendable", inv.InvoiceNumber, inv.CustomerPhone)
		return
	}

	garage := profile.CompanyName
	if garage == "" {
		garage = "our garage"
	}
	totals := billing.InvoiceTotals(inv)
	message := fmt.Sprintf("Hi %s, your invoice %s from %s is ready. Amount due: %s. Thank you!",
		inv.CustomerName, inv.InvoiceNumber, garage, billing.Currency(totals.Total))

	to := inv.CustomerPhone
	from := n.from
	if strings.HasPrefix(inv.CustomerPhone, "+") && n.waFrom != "" {
		to = "whatsapp:" + inv.CustomerPhone
		from = "whatsapp:" + n.waFrom
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("notify: failed to send invoice %s to %s: %v", inv.InvoiceNumber, inv.CustomerPhone, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("notify: invoice %s sent to %s, SID: %s", inv.InvoiceNumber, inv.CustomerPhone, *resp.Sid)
	} else {
		log.Printf("notify: invoice %s sent to %s, but no SID returned", inv.InvoiceNumber, inv.CustomerPhone)
	}
}
