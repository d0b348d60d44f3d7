// internal/services/push.go
package services

import (
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/wareflow/wareflow-backend/internal/config"
	"github.com/wareflow/wareflow-backend/internal/models"
)

// ErrSubscriptionExpired signals that the push service no longer knows
// the endpoint and the subscription record should be removed.
var ErrSubscriptionExpired = errors.New("push subscription expired")

// PushSender delivers one payload to one device subscription.
type PushSender interface {
	Send(sub *models.PushSubscription, payload []byte) error
}

type webpushSender struct {
	cfg config.PushConfig
}

func NewWebPushSender(cfg config.PushConfig) PushSender {
	return &webpushSender{cfg: cfg}
}

func (s *webpushSender) Send(sub *models.PushSubscription, payload []byte) error {
	if s.cfg.VAPIDPrivateKey == "" {
		return errors.New("web push not configured")
	}

	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return ErrSubscriptionExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return nil
}
