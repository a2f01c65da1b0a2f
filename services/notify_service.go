package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"claims-portal-api/config"
	"claims-portal-api/models"
	"claims-portal-api/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotifyService sends claim notifications: confirmation email and SMS to the
// claimant, in-app notification rows and an alert email to staff. Every send
// is best-effort; a delivery failure is logged and never propagated, so a
// claim submission can never fail because an SMTP server was down.
type NotifyService struct {
	db         *gorm.DB
	sendMail   func(to []string, subject, html string) error
	httpClient *http.Client
	log        *logrus.Logger
}

func NewNotifyService(db *gorm.DB) *NotifyService {
	return &NotifyService{
		db:         db,
		sendMail:   config.SendMail,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        config.GetLogger(),
	}
}

// ClaimSubmitted runs after a claim is created. Call it in a goroutine; it
// never returns an error.
func (n *NotifyService) ClaimSubmitted(claim *models.Claim) {
	subject := fmt.Sprintf("Claim %s received", claim.ReferenceNumber)
	html := fmt.Sprintf(`<p>Dear %s,</p>
<p>We have received your buildings-insurance claim. Your reference number is
<strong>%s</strong>. Please quote it in any correspondence.</p>
<p>We will review your claim and contact you with the next steps.</p>`,
		claim.ClaimantName, claim.ReferenceNumber)

	if err := n.sendMail([]string{claim.ClaimantEmail}, subject, html); err != nil {
		config.LogError(n.log, "notify", "ClaimSubmitted", "confirmation email",
			map[string]any{"claim_id": claim.ClaimID}, err)
	}

	if claim.ClaimantPhone != "" {
		sms := fmt.Sprintf("Your claim has been received. Reference: %s", claim.ReferenceNumber)
		if err := n.sendSMS(claim.ClaimantPhone, sms); err != nil {
			config.LogError(n.log, "notify", "ClaimSubmitted", "confirmation sms",
				map[string]any{"claim_id": claim.ClaimID}, err)
		}
	}

	n.notifyStaff(
		"New claim submitted",
		fmt.Sprintf("Claim %s from %s needs triage.", claim.ReferenceNumber, claim.ClaimantName),
		"info", claim,
	)
}

// StatusChanged alerts the claimant when staff move their claim.
func (n *NotifyService) StatusChanged(claim *models.Claim, fromStatus string) {
	subject := fmt.Sprintf("Claim %s update", claim.ReferenceNumber)
	html := fmt.Sprintf(`<p>Dear %s,</p>
<p>The status of your claim <strong>%s</strong> has changed from %s to
<strong>%s</strong>.</p>`,
		claim.ClaimantName, claim.ReferenceNumber, fromStatus, claim.Status)

	if err := n.sendMail([]string{claim.ClaimantEmail}, subject, html); err != nil {
		config.LogError(n.log, "notify", "StatusChanged", "status email",
			map[string]any{"claim_id": claim.ClaimID, "to_status": claim.Status}, err)
	}
}

// HandlerAssigned tells the new handler a claim has landed on their desk:
// one email plus an in-app notification row.
func (n *NotifyService) HandlerAssigned(claim *models.Claim, handler *models.User) {
	subject := fmt.Sprintf("Claim %s assigned to you", claim.ReferenceNumber)
	html := fmt.Sprintf(`<p>Dear %s,</p>
<p>Claim <strong>%s</strong> from %s has been assigned to you.</p>`,
		handler.FullName(), claim.ReferenceNumber, claim.ClaimantName)

	if err := n.sendMail([]string{handler.Email}, subject, html); err != nil {
		config.LogError(n.log, "notify", "HandlerAssigned", "assignment email",
			map[string]any{"claim_id": claim.ClaimID, "handler_id": handler.UserID}, err)
	}

	claimID := uint(claim.ClaimID)
	row := models.Notification{
		UserID:         uint(handler.UserID),
		Title:          subject,
		Message:        fmt.Sprintf("Claim %s is now handled by %s.", claim.ReferenceNumber, handler.FullName()),
		Type:           "assignment",
		RelatedClaimID: &claimID,
		CreateAt:       time.Now(),
	}
	if err := n.db.Create(&row).Error; err != nil {
		config.LogError(n.log, "notify", "HandlerAssigned", "notification row",
			map[string]any{"user_id": handler.UserID}, err)
	}
}

// notifyStaff writes an in-app notification row for every active staff user
// and emails the handlers' alias when configured.
func (n *NotifyService) notifyStaff(title, message, typ string, claim *models.Claim) {
	var staff []models.User
	if err := n.db.Select("user_id", "email").
		Where("delete_at IS NULL AND active = ?", true).
		Find(&staff).Error; err != nil {
		config.LogError(n.log, "notify", "notifyStaff", "load staff", nil, err)
		return
	}

	claimID := uint(claim.ClaimID)
	now := time.Now()
	for _, u := range staff {
		row := models.Notification{
			UserID:         uint(u.UserID),
			Title:          title,
			Message:        message,
			Type:           typ,
			RelatedClaimID: &claimID,
			CreateAt:       now,
		}
		if err := n.db.Create(&row).Error; err != nil {
			config.LogError(n.log, "notify", "notifyStaff", "notification row",
				map[string]any{"user_id": u.UserID}, err)
		}
	}

	if alias := strings.TrimSpace(os.Getenv("CLAIMS_ALERT_EMAIL")); alias != "" && utils.ValidateEmail(alias) {
		if err := n.sendMail([]string{alias}, title, "<p>"+message+"</p>"); err != nil {
			config.LogError(n.log, "notify", "notifyStaff", "alert email", nil, err)
		}
	}
}

// sendSMS posts to the SMS gateway's HTTP API. No retries: the gateway queues
// internally, and notifications are fire-and-forget by contract.
func (n *NotifyService) sendSMS(phone, message string) error {
	endpoint := os.Getenv("SMS_API_URL")
	if endpoint == "" {
		return fmt.Errorf("sms not configured (SMS_API_URL)")
	}

	body, err := json.Marshal(map[string]string{"to": phone, "message": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("SMS_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
