package payments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChargeStatus is the lifecycle state of a PIX charge. The only transitions
// are out of pending; paid, expired and cancelled are terminal.
type ChargeStatus string

const (
	ChargePending   ChargeStatus = "pending"
	ChargePaid      ChargeStatus = "paid"
	ChargeExpired   ChargeStatus = "expired"
	ChargeCancelled ChargeStatus = "cancelled"
)

var ErrChargeNotFound = errors.New("payments: charge not found")

// Charge is a PIX payment request handed to the customer as a copy-paste
// BR Code.
type Charge struct {
	ID            string       `json:"id"`
	AmountCents   int64        `json:"amount_cents"`
	Description   string       `json:"description"`
	BRCode        string       `json:"br_code"`
	Status        ChargeStatus `json:"status"`
	CustomerRef   string       `json:"customer_ref"`
	AppointmentID uuid.UUID    `json:"appointment_id"`
	CreatedAt     time.Time    `json:"created_at"`
	ExpiresAt     time.Time    `json:"expires_at"`
	PaidAt        *time.Time   `json:"paid_at,omitempty"`
}

// CreateChargeRequest carries everything a gateway needs to open a charge.
type CreateChargeRequest struct {
	AmountCents   int64
	Description   string
	CustomerRef   string
	AppointmentID uuid.UUID
}

// BRCodeParams feed the EMV payload builder.
type BRCodeParams struct {
	PixKey       string
	MerchantName string
	MerchantCity string
	AmountCents  int64
	TxID         string
}

// BRCode assembles a static PIX BR Code: EMV TLV fields with the BCB GUI,
// BRL currency, and the CRC16-CCITT trailer the standard requires.
func BRCode(p BRCodeParams) string {
	txid := p.TxID
	if txid == "" {
		txid = "***"
	}

	var b strings.Builder
	b.WriteString(emv("00", "01"))
	merchantAccount := emv("00", "br.gov.bcb.pix") + emv("01", p.PixKey)
	b.WriteString(emv("26", merchantAccount))
	b.WriteString(emv("52", "0000"))
	b.WriteString(emv("53", "986"))
	if p.AmountCents > 0 {
		b.WriteString(emv("54", fmt.Sprintf("%d.%02d", p.AmountCents/100, p.AmountCents%100)))
	}
	b.WriteString(emv("58", "BR"))
	b.WriteString(emv("59", truncate(p.MerchantName, 25)))
	b.WriteString(emv("60", truncate(p.MerchantCity, 15)))
	b.WriteString(emv("62", emv("05", truncate(txid, 25))))

	payload := b.String() + "6304"
	return payload + fmt.Sprintf("%04X", crc16(payload))
}

func emv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// crc16 implements CRC16-CCITT (poly 0x1021, init 0xFFFF) over the payload,
// as mandated by the PIX BR Code specification for field 63.
func crc16(payload string) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range []byte(payload) {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
