package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitalred/vitalred/internal/domain/referral"
)

func newTestManager() (*NotificationManager, *MockEmailSender, *MockSMSSender) {
	email := &MockEmailSender{}
	sms := &MockSMSSender{}
	return NewNotificationManager(email, sms, NewTemplateEngine()), email, sms
}

func TestTemplateEngine_Render(t *testing.T) {
	e := NewTemplateEngine()

	subject, body, err := e.Render("urgent-referral", map[string]string{
		"specialty":   "Cardiología",
		"score":       "82.5",
		"institution": "Hospital San Rafael",
		"case_id":     "abc-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(subject, "Cardiología") {
		t.Errorf("subject missing specialty: %q", subject)
	}
	if !strings.Contains(body, "82.5") || !strings.Contains(body, "Hospital San Rafael") {
		t.Errorf("body missing data: %q", body)
	}
}

func TestTemplateEngine_RenderUnknownTemplate(t *testing.T) {
	e := NewTemplateEngine()
	if _, _, err := e.Render("no-such-template", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestTemplateEngine_MissingKeysLeftAsIs(t *testing.T) {
	e := NewTemplateEngine()
	_, body, err := e.Render("referral-received", map[string]string{"specialty": "Neurología"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "{{level}}") {
		t.Errorf("expected unreplaced placeholder to remain, got %q", body)
	}
}

func TestTemplateEngine_RegisterOverrides(t *testing.T) {
	e := NewTemplateEngine()
	e.RegisterTemplate(Template{ID: "urgent-referral", Subject: "otro", Body: "otro", Type: TypeEmail})

	subject, _, err := e.Render("urgent-referral", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "otro" {
		t.Errorf("expected overridden subject, got %q", subject)
	}
}

func TestManager_SendEmail(t *testing.T) {
	mgr, email, _ := newTestManager()

	n := &Notification{Type: TypeEmail, Recipient: "junta@vitalred.co", Subject: "hola", Body: "cuerpo"}
	if err := mgr.Send(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Status != "sent" || n.SentAt == nil {
		t.Errorf("expected sent status, got %q", n.Status)
	}
	if len(email.Calls()) != 1 {
		t.Errorf("expected 1 email call, got %d", len(email.Calls()))
	}
}

func TestManager_SendSMSFailure(t *testing.T) {
	mgr, _, sms := newTestManager()
	sms.ShouldFail = true
	sms.FailError = "carrier timeout"

	n := &Notification{Type: TypeSMS, Recipient: "+573001234567", Body: "alerta"}
	if err := mgr.Send(context.Background(), n); err == nil {
		t.Fatal("expected error")
	}
	if n.Status != "failed" || n.Error != "carrier timeout" {
		t.Errorf("expected failed status with error, got %q / %q", n.Status, n.Error)
	}
}

func TestManager_SendUnsupportedType(t *testing.T) {
	mgr, _, _ := newTestManager()
	n := &Notification{Type: "carrier-pigeon", Recipient: "x"}
	if err := mgr.Send(context.Background(), n); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestManager_SendFromTemplate(t *testing.T) {
	mgr, email, _ := newTestManager()

	n, err := mgr.SendFromTemplate(context.Background(), "urgent-referral", map[string]string{
		"specialty": "Cardiología",
		"score":     "90.0",
	}, "junta@vitalred.co")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.TemplateID != "urgent-referral" {
		t.Errorf("template id not recorded: %q", n.TemplateID)
	}
	calls := email.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0].Subject, "URGENTE") {
		t.Errorf("unexpected email calls: %+v", calls)
	}
}

func TestManager_Retry(t *testing.T) {
	mgr, email, _ := newTestManager()
	email.ShouldFail = true
	email.FailError = "smtp down"

	n := &Notification{Type: TypeEmail, Recipient: "junta@vitalred.co", Body: "cuerpo"}
	mgr.Send(context.Background(), n)

	email.ShouldFail = false
	if err := mgr.Retry(context.Background(), n.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := mgr.GetNotification(context.Background(), n.ID)
	if got.Status != "sent" || got.Error != "" {
		t.Errorf("expected sent after retry, got %q / %q", got.Status, got.Error)
	}
}

func TestManager_RetryNonFailed(t *testing.T) {
	mgr, _, _ := newTestManager()

	n := &Notification{Type: TypeEmail, Recipient: "junta@vitalred.co", Body: "cuerpo"}
	mgr.Send(context.Background(), n)

	if err := mgr.Retry(context.Background(), n.ID); err == nil {
		t.Error("expected error retrying a sent notification")
	}
}

func TestManager_NotificationStats(t *testing.T) {
	mgr, email, _ := newTestManager()

	mgr.Send(context.Background(), &Notification{Type: TypeEmail, Recipient: "a@x.co", Body: "1"})
	email.ShouldFail = true
	email.FailError = "smtp down"
	mgr.Send(context.Background(), &Notification{Type: TypeEmail, Recipient: "b@x.co", Body: "2"})

	stats := mgr.NotificationStats(context.Background())
	if stats["sent"] != 1 || stats["failed"] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestManager_ListByRecipient(t *testing.T) {
	mgr, _, _ := newTestManager()

	mgr.Send(context.Background(), &Notification{Type: TypeEmail, Recipient: "a@x.co", Body: "1"})
	mgr.Send(context.Background(), &Notification{Type: TypeEmail, Recipient: "a@x.co", Body: "2"})
	mgr.Send(context.Background(), &Notification{Type: TypeEmail, Recipient: "b@x.co", Body: "3"})

	list, err := mgr.ListByRecipient(context.Background(), "a@x.co", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(list))
	}
}

func TestUrgentCaseNotifier(t *testing.T) {
	mgr, email, sms := newTestManager()
	inst := "Hospital San Rafael"
	c := &referral.Case{
		ID:              uuid.New(),
		Specialty:       "Cardiología",
		PriorityScore:   82.5,
		PriorityLevel:   "Alta",
		InstitutionName: &inst,
		CreatedAt:       time.Now(),
	}

	n := NewUrgentCaseNotifier(mgr, []string{"junta@vitalred.co", "jefe@vitalred.co"}, []string{"+573001234567"})
	if err := n.NotifyUrgentCase(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(email.Calls()) != 2 {
		t.Errorf("expected 2 emails, got %d", len(email.Calls()))
	}
	smsCalls := sms.Calls()
	if len(smsCalls) != 1 {
		t.Fatalf("expected 1 sms, got %d", len(smsCalls))
	}
	if !strings.Contains(smsCalls[0].Body, "Cardiología") {
		t.Errorf("sms body missing specialty: %q", smsCalls[0].Body)
	}
}

func TestUrgentCaseNotifier_CollectsFirstError(t *testing.T) {
	mgr, email, _ := newTestManager()
	email.ShouldFail = true
	email.FailError = "smtp down"

	c := &referral.Case{ID: uuid.New(), Specialty: "Neurología", PriorityScore: 75}
	n := NewUrgentCaseNotifier(mgr, []string{"junta@vitalred.co"}, nil)
	if err := n.NotifyUrgentCase(context.Background(), c); err == nil {
		t.Error("expected error when email delivery fails")
	}
}
