package notification

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/integrations/mailer"
)

// MailClient клиент почтового API
type MailClient interface {
	Send(ctx context.Context, msg *mailer.Message) (string, error)
}

var statusLabels = map[domain.ReservationStatus]string{
	domain.StatusPending:         "Pending",
	domain.StatusAwaitingPayment: "Awaiting payment",
	domain.StatusInProgress:      "In progress",
	domain.StatusCompleted:       "Completed",
	domain.StatusCancelled:       "Cancelled",
}

var bodyTemplate = template.Must(template.New("status_changed").Parse(
	`Hello {{.CustomerName}},

The status of your repair #{{.ReservationID}}{{if .DeviceName}} ({{.DeviceName}}){{end}} has changed from {{.Old}} to {{.New}}.

Schedule: {{.Date}}, shift {{.ShiftName}} ({{.StartTime}}-{{.EndTime}}).
`))

// EmailSender отправляет уведомления письмом
type EmailSender struct {
	client MailClient
	from   string
}

// NewEmailSender создает отправителя писем
func NewEmailSender(client MailClient, from string) *EmailSender {
	return &EmailSender{client: client, from: from}
}

// SendStatusChanged рендерит и отправляет письмо о смене статуса
func (s *EmailSender) SendStatusChanged(ctx context.Context, event StatusChanged) error {
	if event.Recipient == "" {
		return ErrNoRecipient
	}

	subject, body, err := Render(event)
	if err != nil {
		return err
	}

	_, err = s.client.Send(ctx, &mailer.Message{
		From:    s.from,
		To:      []string{event.Recipient},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("%w: reservation=%d: %w", ErrSendFailed, event.ReservationID, err)
	}
	return nil
}

// Render возвращает тему и текст письма
func Render(event StatusChanged) (string, string, error) {
	data := struct {
		StatusChanged
		Old string
		New string
	}{
		StatusChanged: event,
		Old:           label(event.OldStatus),
		New:           label(event.NewStatus),
	}

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render status changed email: %w", err)
	}

	subject := fmt.Sprintf("Repair #%d: %s", event.ReservationID, data.New)
	return subject, buf.String(), nil
}

func label(s domain.ReservationStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
