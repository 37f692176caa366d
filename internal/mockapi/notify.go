package mockapi

import (
	"fmt"
	"strings"
	"sync"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"sqrts/internal/logging"
)

// Notifier delivers OTP codes and user messages.
type Notifier interface {
	SendSMS(to, message string) error
}

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct {
	log  *logging.Logger
	mu   sync.Mutex
	sent []SentMessage
}

type SentMessage struct {
	To   string
	Body string
}

func NewLogNotifier(log *logging.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) SendSMS(to, message string) error {
	n.log.Infof("[MOCK SMS] To: %s, Message: %s", to, message)
	n.mu.Lock()
	n.sent = append(n.sent, SentMessage{To: to, Body: message})
	n.mu.Unlock()
	return nil
}

// Sent returns every message logged so far.
func (n *LogNotifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentMessage(nil), n.sent...)
}

// Last returns the most recent message to the given recipient.
func (n *LogNotifier) Last(to string) (SentMessage, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].To == to {
			return n.sent[i], true
		}
	}
	return SentMessage{}, false
}

// TwilioNotifier sends SMS through Twilio.
type TwilioNotifier struct {
	client      *twilio.RestClient
	fromNumber  string
	countryCode string
}

func NewTwilioNotifier(accountSID, authToken, fromNumber string) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioNotifier{client: client, fromNumber: fromNumber, countryCode: "+65"}
}

// E164 prefixes local 8-digit numbers with the country code.
func (t *TwilioNotifier) E164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return t.countryCode + phone
}

func (t *TwilioNotifier) SendSMS(to, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(t.E164(to))
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
