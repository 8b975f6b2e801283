package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"

	"splitledger-backend/config"
	"splitledger-backend/database"
	"splitledger-backend/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

type NotificationService struct {
	messaging *messaging.Client
}

var notifService *NotificationService

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{}
		notifService.initMessaging()
	}
	return notifService
}

// ============================================================
// PUSH NOTIFICATIONS via Firebase Admin SDK
// ============================================================

func (ns *NotificationService) initMessaging() {
	credPath := config.AppConfig.FirebaseCredPath
	if _, err := os.Stat(credPath); err != nil {
		log.Println("⚠️  Firebase credentials not found, push notifications disabled")
		return
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credPath))
	if err != nil {
		log.Printf("❌ Firebase init error: %v", err)
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("❌ Firebase messaging error: %v", err)
		return
	}

	ns.messaging = client
	log.Println("✅ Firebase messaging initialized")
}

func (ns *NotificationService) sendPush(fcmToken string, title string, body string, data map[string]string) {
	if ns.messaging == nil || fcmToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := ns.messaging.Send(context.Background(), msg); err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", title)
}

// ============================================================
// EMAIL NOTIFICATIONS via SendGrid
// ============================================================

func (ns *NotificationService) sendEmail(toEmail string, toName string, subject string, htmlBody string) {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Printf("⚠️  SendGrid API key not set, skipping email to %s", toEmail)
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, subject, htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// ============================================================
// NOTIFICATION EVENTS
// ============================================================

// NotifyLedgerShared sends push + email to the user a ledger was shared with.
func (ns *NotificationService) NotifyLedgerShared(ledger models.Ledger, owner models.User, recipient models.User) {
	title := fmt.Sprintf("%s shared a ledger with you", owner.Name)
	body := fmt.Sprintf("You now have access to \"%s\"", ledger.Name)

	ns.sendPush(recipient.FCMToken, title, body, map[string]string{
		"type":      "ledger_shared",
		"ledger_id": ledger.ID.String(),
	})

	htmlBody := buildSharedEmailHTML(owner.Name, recipient.Name, ledger.Name)
	ns.sendEmail(recipient.Email, recipient.Name, title, htmlBody)
}

// NotifyItemAdded sends a push to everyone the ledger is shared with,
// including the owner.
func (ns *NotificationService) NotifyItemAdded(ledgerID uuid.UUID, participantName string, item models.ExpenseItem) {
	var ledger models.Ledger
	if err := database.DB.Preload("Owner").Preload("Shares.User").First(&ledger, ledgerID).Error; err != nil {
		return
	}

	title := fmt.Sprintf("New expense in %s", ledger.Name)
	body := fmt.Sprintf("\"%s\" (%s %.2f) added for %s", item.Name, ledger.Currency, item.Value, participantName)
	data := map[string]string{
		"type":      "item_added",
		"ledger_id": ledger.ID.String(),
		"item_id":   item.ID.String(),
	}

	ns.sendPush(ledger.Owner.FCMToken, title, body, data)
	for _, share := range ledger.Shares {
		ns.sendPush(share.User.FCMToken, title, body, data)
	}
}

// NotifyInvitation emails someone who does not have an account yet.
func (ns *NotificationService) NotifyInvitation(email string, inviterName string, ledgerName string) {
	subject := fmt.Sprintf("%s invited you to %s", inviterName, config.AppConfig.AppName)
	htmlBody := fmt.Sprintf(
		"<p>%s is tracking shared expenses for <strong>%s</strong> on %s and wants you in.</p><p><a href=%q>Create an account</a> with this email address to get access.</p>",
		template.HTMLEscapeString(inviterName), template.HTMLEscapeString(ledgerName),
		config.AppConfig.AppName, config.AppConfig.AppURL)
	ns.sendEmail(email, "", subject, htmlBody)
}

var sharedEmailTmpl = template.Must(template.New("shared").Parse(`
<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
  <h2>{{.Owner}} shared a ledger with you</h2>
  <p>Hi {{.Recipient}},</p>
  <p>{{.Owner}} gave you access to the ledger <strong>{{.Ledger}}</strong>.
  You can now add participants, expenses and payments, and see who owes whom.</p>
  <p><a href="{{.AppURL}}">Open {{.AppName}}</a></p>
</div>
`))

func buildSharedEmailHTML(ownerName, recipientName, ledgerName string) string {
	var buf bytes.Buffer
	err := sharedEmailTmpl.Execute(&buf, map[string]string{
		"Owner":     ownerName,
		"Recipient": recipientName,
		"Ledger":    ledgerName,
		"AppURL":    config.AppConfig.AppURL,
		"AppName":   config.AppConfig.AppName,
	})
	if err != nil {
		return fmt.Sprintf("<p>%s shared the ledger %s with you.</p>", ownerName, ledgerName)
	}
	return buf.String()
}
