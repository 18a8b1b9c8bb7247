package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// SMSService sends one-time codes through the Twilio REST API. When no
// credentials are configured it degrades to development mode and logs the
// code instead of sending it.
type SMSService struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

// NewSMSService creates a new SMSService.
func NewSMSService(accountSID, authToken, fromNumber string) *SMSService {
	return &SMSService{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether real SMS delivery is available.
func (s *SMSService) Configured() bool {
	return s.accountSID != "" && s.authToken != ""
}

// SendOTP delivers the verification code to the given phone number.
func (s *SMSService) SendOTP(phone, code string) error {
	if !s.Configured() {
		log.Printf("[SMS] dev mode: OTP for %s is %s", phone, code)
		return nil
	}

	if s.fromNumber == "" {
		return errors.New("TWILIO_PHONE_NUMBER is not configured")
	}

	body := fmt.Sprintf("Your Chocobar verification code is: %s. Valid for 10 minutes.", code)

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioAPIBase, s.accountSID)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[SMS] failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		log.Printf("[SMS] unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
