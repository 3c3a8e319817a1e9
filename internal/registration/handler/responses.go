package handler

import "registrar/internal/registration/models"

// MailResult reports per-message delivery. A nil id means that message was
// not delivered.
type MailResult struct {
	ParticipantMessageID *string `json:"participantMessageId"`
	AdminMessageID       *string `json:"adminMessageId"`
	Provider             string  `json:"provider"`
}

// RegisterResponse is the body of POST /api/register.
type RegisterResponse struct {
	OK    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	Mail  *MailResult `json:"mail,omitempty"`
}

// InfoResponse is the body of GET /api/register.
type InfoResponse struct {
	OK       bool   `json:"ok"`
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
}

func toMailResult(o *models.Outcome) *MailResult {
	return &MailResult{
		ParticipantMessageID: messageID(o.Participant),
		AdminMessageID:       messageID(o.Admin),
		Provider:             o.Provider,
	}
}

func messageID(r models.DeliveryResult) *string {
	if !r.Delivered() {
		return nil
	}
	id := r.MessageID
	return &id
}
