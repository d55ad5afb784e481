package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"supper_server/utils"
)

// SMSService sends outbound texts through the Twilio REST API when
// credentials are configured, and logs them otherwise (stub mode for
// development). Every send is best-effort: a failure is logged and
// reported as false, never propagated as an error, because the state
// change it announces has already been committed.
type SMSService struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	HTTPClient *http.Client
}

// NewSMSServiceFromEnv builds the gateway from TWILIO_ACCOUNT_SID,
// TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER.
func NewSMSServiceFromEnv() *SMSService {
	return &SMSService{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSService) enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

// Send delivers one message to an E.164 phone number.
func (s *SMSService) Send(ctx context.Context, to, body string) bool {
	if !utils.IsValidE164(to) {
		log.Printf("SMS rejected, invalid phone format: %s", utils.MaskPhone(to))
		return false
	}

	if !s.enabled() {
		log.Printf("SMS stub mode, to=%s message=%q", utils.MaskPhone(to), body)
		return true
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.AccountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.FromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("SMS request build failed: %v", err)
		return false
	}
	req.SetBasicAuth(s.AccountSID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		log.Printf("SMS send failed, to=%s: %v", utils.MaskPhone(to), err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			log.Printf("SMS send failed, to=%s code=%d message=%q", utils.MaskPhone(to), apiErr.Code, apiErr.Message)
		} else {
			log.Printf("SMS send failed, to=%s status=%d", utils.MaskPhone(to), resp.StatusCode)
		}
		return false
	}

	log.Printf("SMS sent, to=%s", utils.MaskPhone(to))
	return true
}
