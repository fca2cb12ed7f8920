package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoContactChannel is returned when a contact has neither e-mail nor phone
var ErrNoContactChannel = errors.New("contact has no email or phone")

// ContactInfo is the part of a client or contact needed to delegate a task
type ContactInfo struct {
	Name  string
	Email string
	Phone string
}

// ResolveAssignment picks e-mail when the contact has one and WhatsApp otherwise
func ResolveAssignment(c ContactInfo) (TaskAssignment, error) {
	if email := strings.TrimSpace(c.Email); email != "" {
		return TaskAssignment{Method: AssignmentMethodEmail, Contact: email}, nil
	}
	if phone := strings.TrimSpace(c.Phone); phone != "" {
		return TaskAssignment{Method: AssignmentMethodWhatsApp, Contact: phone}, nil
	}
	return TaskAssignment{}, ErrNoContactChannel
}

// WhatsAppNumber strips everything but digits and '+'
func WhatsAppNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func dueDateText(t *Task) string {
	if !t.DueDate.Valid {
		return "Sin fecha"
	}
	return t.DueDate.Time.Format("2006-01-02")
}

func descriptionText(t *Task) string {
	if strings.TrimSpace(t.Description) == "" {
		return "Sin descripción"
	}
	return t.Description
}

// AssignmentEmailSubject is the subject line of the delegation e-mail
func AssignmentEmailSubject(t *Task) string {
	return "Tarea: " + t.Title
}

// AssignmentEmailBody is the body of the delegation e-mail
func AssignmentEmailBody(t *Task) string {
	return fmt.Sprintf("Hola,\n\nTe han asignado la siguiente tarea:\n\nTítulo: %s\nDescripción: %s\nFecha de vencimiento: %s\n\nPor favor, confirma cuando la hayas completado.\n\nSaludos",
		t.Title, descriptionText(t), dueDateText(t))
}

// AssignmentWhatsAppMessage is the text of the delegation chat message
func AssignmentWhatsAppMessage(t *Task) string {
	return fmt.Sprintf("*Nueva tarea asignada*\n\n*Título:* %s\n*Descripción:* %s\n*Vencimiento:* %s\n\nPor favor, confirma cuando la hayas completado.",
		t.Title, descriptionText(t), dueDateText(t))
}

// escapeComponent percent-encodes spaces as %20, which mail and chat clients expect
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// AssignmentLink builds the deep link that opens the user's mail or chat client
// with the delegation message prefilled.
func AssignmentLink(t *Task) (string, error) {
	switch t.Assignment.Method {
	case AssignmentMethodEmail:
		return "mailto:" + t.Assignment.Contact +
			"?subject=" + escapeComponent(AssignmentEmailSubject(t)) +
			"&body=" + escapeComponent(AssignmentEmailBody(t)), nil
	case AssignmentMethodWhatsApp:
		number := WhatsAppNumber(t.Assignment.Contact)
		if number == "" {
			return "", ErrNoContactChannel
		}
		return "https://wa.me/" + number + "?text=" + escapeComponent(AssignmentWhatsAppMessage(t)), nil
	default:
		return "", fmt.Errorf("task has no assignment")
	}
}
