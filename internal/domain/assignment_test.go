package domain_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAssignment(t *testing.T) {
	a, err := domain.ResolveAssignment(domain.ContactInfo{Name: "Ana", Email: "ana@example.com", Phone: "+34 600 000 000"})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentMethodEmail, a.Method)
	assert.Equal(t, "ana@example.com", a.Contact)

	a, err = domain.ResolveAssignment(domain.ContactInfo{Name: "Luis", Phone: "+34 600 000 000"})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentMethodWhatsApp, a.Method)
	assert.Equal(t, "+34 600 000 000", a.Contact)

	_, err = domain.ResolveAssignment(domain.ContactInfo{Name: "Nadie"})
	assert.ErrorIs(t, err, domain.ErrNoContactChannel)
}

func TestWhatsAppNumber(t *testing.T) {
	assert.Equal(t, "+34600111222", domain.WhatsAppNumber("+34 (600) 111-222"))
	assert.Equal(t, "", domain.WhatsAppNumber("n/a"))
}

func TestAssignmentLink_Email(t *testing.T) {
	task := &domain.Task{
		Title:      "Enviar presupuesto",
		DueDate:    domain.NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		Assignment: domain.TaskAssignment{Method: domain.AssignmentMethodEmail, Contact: "ana@example.com"},
	}

	link, err := domain.AssignmentLink(task)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "mailto:ana@example.com?subject="))
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Tarea: Enviar presupuesto", q.Get("subject"))
	assert.Contains(t, q.Get("body"), "Descripción: Sin descripción")
	assert.Contains(t, q.Get("body"), "Fecha de vencimiento: 2025-03-01")
}

func TestAssignmentLink_WhatsApp(t *testing.T) {
	task := &domain.Task{
		Title:       "Llamar proveedor",
		Description: "Confirmar entrega",
		Assignment:  domain.TaskAssignment{Method: domain.AssignmentMethodWhatsApp, Contact: "+34 600 111 222"},
	}

	link, err := domain.AssignmentLink(task)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/+34600111222?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "*Nueva tarea asignada*")
	assert.Contains(t, text, "*Vencimiento:* Sin fecha")
}

func TestAssignmentLink_Unassigned(t *testing.T) {
	_, err := domain.AssignmentLink(&domain.Task{Title: "x"})
	assert.Error(t, err)
}
