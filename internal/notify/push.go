package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"firebase.google.com/go/messaging"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
	"github.com/anashamdi123/3a9ari-sub001/internal/repositories"
)

// Notifier pushes owner-facing events over FCM. A nil Notifier or a missing
// device token silently skips the send.
type Notifier struct {
	Client   *messaging.Client
	UserRepo *repositories.UserRepository
}

func NewNotifier(client *messaging.Client, userRepo *repositories.UserRepository) *Notifier {
	return &Notifier{Client: client, UserRepo: userRepo}
}

func (n *Notifier) send(ctx context.Context, userID int, title, body string, data map[string]string) {
	if n == nil || n.Client == nil {
		return
	}
	token, err := n.UserRepo.GetDeviceToken(ctx, userID)
	if err != nil {
		log.Printf("push: device token lookup for user %d failed: %v", userID, err)
		return
	}
	if token == "" {
		return
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: title, Body: body},
					Sound: "default",
				},
			},
		},
	}

	if _, err := n.Client.Send(ctx, message); err != nil {
		log.Printf("push: send to user %d failed: %v", userID, err)
	}
}

// ListingApproved tells the owner their listing went live.
func (n *Notifier) ListingApproved(ctx context.Context, listing models.Listing) {
	n.send(ctx, listing.UserID,
		"تم قبول إعلانك",
		fmt.Sprintf("تمت الموافقة على \"%s\" وأصبح ظاهراً للجميع", listing.Title),
		map[string]string{"listing_id": strconv.Itoa(listing.ID), "event": "listing_approved"})
}

// ListingFavorited tells the owner someone bookmarked their listing.
func (n *Notifier) ListingFavorited(ctx context.Context, listing models.Listing) {
	n.send(ctx, listing.UserID,
		"إعجاب جديد",
		fmt.Sprintf("أضاف أحد المستخدمين \"%s\" إلى المفضلة", listing.Title),
		map[string]string{"listing_id": strconv.Itoa(listing.ID), "event": "listing_favorited"})
}
