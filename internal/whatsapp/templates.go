package whatsapp

import (
	"fmt"
	"strings"
)

// Template builders for the notifications BarberIA sends. Bodies are pt-BR
// with WhatsApp * bold markers, mirroring what customers already receive.

// AppointmentDetails carries the fields shared by the booking templates.
type AppointmentDetails struct {
	BarbershopName string
	ClientName     string
	BarberName     string
	ServiceName    string
	Date           string
	Time           string
}

// AppointmentConfirmation is sent right after a booking is submitted, with
// the PIX copy-paste code for payment.
func AppointmentConfirmation(d AppointmentDetails, brCode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Confirmação de Agendamento - %s*\n\n", d.BarbershopName)
	fmt.Fprintf(&b, "Olá %s!\n\n", d.ClientName)
	b.WriteString("Seu agendamento foi registrado:\n")
	fmt.Fprintf(&b, "*Data:* %s\n", d.Date)
	fmt.Fprintf(&b, "*Horário:* %s\n", d.Time)
	fmt.Fprintf(&b, "*Serviço:* %s\n", d.ServiceName)
	fmt.Fprintf(&b, "*Barbeiro:* %s\n", d.BarberName)
	if brCode != "" {
		fmt.Fprintf(&b, "\n*Pagamento PIX:*\n%s\n\nPara confirmar, realize o pagamento PIX acima. Você receberá uma confirmação automática.", brCode)
	}
	return b.String()
}

// PaymentConfirmation is sent once the PIX webhook confirms payment.
func PaymentConfirmation(clientName string, amountCents int64, serviceName string) string {
	amount := fmt.Sprintf("R$ %d,%02d", amountCents/100, amountCents%100)
	var b strings.Builder
	b.WriteString("*Pagamento Confirmado!*\n\n")
	fmt.Fprintf(&b, "Olá %s!\n\n", clientName)
	fmt.Fprintf(&b, "Seu pagamento de *%s* foi confirmado com sucesso!\n\n", amount)
	fmt.Fprintf(&b, "*Serviço:* %s\n", serviceName)
	fmt.Fprintf(&b, "*Valor:* %s\n\n", amount)
	b.WriteString("Seu agendamento está garantido! Nos vemos em breve!\n\n*BarberIA Pro* - Sua barbearia inteligente")
	return b.String()
}

// Reminder is sent the day before the appointment.
func Reminder(d AppointmentDetails) string {
	var b strings.Builder
	b.WriteString("*Lembrete de Agendamento*\n\n")
	fmt.Fprintf(&b, "Olá %s!\n\nLembrando que você tem um agendamento amanhã:\n\n", d.ClientName)
	fmt.Fprintf(&b, "*Data:* %s\n", d.Date)
	fmt.Fprintf(&b, "*Horário:* %s\n", d.Time)
	fmt.Fprintf(&b, "*Serviço:* %s\n", d.ServiceName)
	fmt.Fprintf(&b, "*Barbeiro:* %s\n\n", d.BarberName)
	b.WriteString("Confirme sua presença respondendo *SIM* ou reagende respondendo *REAGENDAR*.")
	return b.String()
}

// Cancellation is sent when an appointment is cancelled.
func Cancellation(d AppointmentDetails) string {
	var b strings.Builder
	b.WriteString("*Agendamento Cancelado*\n\n")
	fmt.Fprintf(&b, "Olá %s,\n\nSeu agendamento foi cancelado:\n\n", d.ClientName)
	fmt.Fprintf(&b, "*Data:* %s\n", d.Date)
	fmt.Fprintf(&b, "*Horário:* %s\n", d.Time)
	fmt.Fprintf(&b, "*Serviço:* %s\n\n", d.ServiceName)
	b.WriteString("Se foi um engano, entre em contato conosco para reagendar.")
	return b.String()
}
