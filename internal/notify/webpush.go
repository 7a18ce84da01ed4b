// Package notify delivers wake events to subscribed browsers over web push,
// so a ringing alarm reaches the user even with no page open.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"

	"wakeup/internal/models"
	"wakeup/internal/store"
)

// PushPayload represents the notification payload sent to clients
type PushPayload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Tag   string                 `json:"tag,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type Notifier struct {
	store *store.Store
}

func New(st *store.Store) *Notifier {
	return &Notifier{store: st}
}

// GetVapidOptions returns configured VAPID options from environment
func GetVapidOptions() *webpush.Options {
	return &webpush.Options{
		Subscriber:      os.Getenv("VAPID_SUBJECT"),
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		TTL:             30,
	}
}

// IsWebPushConfigured checks if VAPID keys are configured
func IsWebPushConfigured() bool {
	return os.Getenv("VAPID_PUBLIC_KEY") != "" &&
		os.Getenv("VAPID_PRIVATE_KEY") != "" &&
		os.Getenv("VAPID_SUBJECT") != ""
}

// NotifyWake pushes the fired alarm to every subscription of its user.
// Delivery failures are logged, never fatal: the in-app wake surface still
// works without push.
func (n *Notifier) NotifyWake(payload models.TriggerPayload) {
	title := payload.Label
	if title == "" {
		title = "Wake up!"
	}
	body := fmt.Sprintf("Alarm ringing: %02d:%02d", payload.Hour, payload.Minute)
	if payload.Mission != models.MissionNone {
		body += ". Solve the " + payload.Mission.Label() + " mission to dismiss"
	}

	if err := n.send(payload.UserID, PushPayload{
		Title: title,
		Body:  body,
		Tag:   fmt.Sprintf("alarm-%d", payload.AlarmID),
		Data: map[string]interface{}{
			"alarm_id": payload.AlarmID,
			"mission":  payload.Mission.String(),
		},
	}); err != nil {
		log.Printf("Wake push for alarm %d failed: %v", payload.AlarmID, err)
	}
}

func (n *Notifier) send(userID int, payload PushPayload) error {
	if !IsWebPushConfigured() {
		log.Println("Web push not configured - skipping notification")
		return nil
	}

	subs, err := n.store.ListPushSubscriptions(userID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	options := GetVapidOptions()
	failCount := 0

	for _, sub := range subs {
		subscription := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}

		resp, err := webpush.SendNotification(payloadJSON, subscription, options)
		if err != nil {
			log.Printf("Failed to send push to %s: %v", sub.Endpoint, err)
			failCount++
			continue
		}
		// Expired or invalid subscriptions are pruned on the spot.
		if resp.StatusCode == 410 || resp.StatusCode == 404 {
			if err := n.store.RemovePushEndpoint(sub.Endpoint); err != nil {
				log.Printf("Failed to prune subscription %s: %v", sub.Endpoint, err)
			}
		}
		resp.Body.Close()
	}

	if failCount > 0 {
		return fmt.Errorf("%d of %d push deliveries failed", failCount, len(subs))
	}
	return nil
}
