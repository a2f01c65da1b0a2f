package services

import (
	"regexp"
	"strings"
	"testing"

	"claims-portal-api/config"
	"claims-portal-api/models"
)

func TestHandlerAssignedEmailsAndNotifiesHandler(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`INSERT INTO .notifications.`),
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	var sentTo []string
	var sentHTML string
	n := &NotifyService{
		db: db,
		sendMail: func(to []string, subject, html string) error {
			sentTo = to
			sentHTML = html
			return nil
		},
		log: config.GetLogger(),
	}

	handler := models.User{UserID: 4, FirstName: "Dana", LastName: "Webb", Email: "dana.webb@example.com"}
	claim := models.Claim{ClaimID: 7, ReferenceNumber: "BIC-TEST-0001", ClaimantName: "Priya Shah"}

	n.HandlerAssigned(&claim, &handler)

	if len(sentTo) != 1 || sentTo[0] != handler.Email {
		t.Fatalf("expected the email to go to the handler, got %v", sentTo)
	}
	if !strings.Contains(sentHTML, "Dana Webb") {
		t.Fatalf("expected the handler's name in the greeting, got %q", sentHTML)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
