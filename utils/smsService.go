package utils

import (
	"fmt"
	"time"

	"jetacademy/config"
	"jetacademy/logging"

	"github.com/go-resty/resty/v2"
)

var smsClient = resty.New().SetTimeout(10 * time.Second)

// SMSSender delivers one text message. Tests replace it.
var SMSSender = sendGatewaySMS

// SendSMS posts a text message to the configured gateway.
func SendSMS(phone, message string) error {
	return SMSSender(phone, message)
}

func sendGatewaySMS(phone, message string) error {
	cfg := config.AppConfig
	log := logging.With("sms")

	if cfg == nil || cfg.SMSApiURL == "" {
		log.Info().Str("phone", phone).Msg("sms gateway not configured, message dropped")
		return nil
	}

	resp, err := smsClient.R().
		SetHeader("Authorization", "Bearer "+cfg.SMSApiKey).
		SetBody(map[string]string{
			"to":      phone,
			"message": message,
		}).
		Post(cfg.SMSApiURL)
	if err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("sending sms failed")
		return err
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("sms gateway rejected message")
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}
	return nil
}
