package domain

import "time"

// MessageDirection indicates whether a message entered or left the system.
type MessageDirection string

const (
	MessageDirectionInbound  MessageDirection = "inbound"
	MessageDirectionOutbound MessageDirection = "outbound"
)

// MessageSenderType enumerates who authored a message.
type MessageSenderType string

const (
	SenderTypeDriver   MessageSenderType = "driver"
	SenderTypeOperator MessageSenderType = "operator"
	SenderTypeSystem   MessageSenderType = "system"
)

// MessageContentType enumerates supported message payloads.
type MessageContentType string

const (
	ContentTypeText     MessageContentType = "text"
	ContentTypePhoto    MessageContentType = "photo"
	ContentTypeVoice    MessageContentType = "voice"
	ContentTypeVideo    MessageContentType = "video"
	ContentTypeDocument MessageContentType = "document"
	ContentTypeLocation MessageContentType = "location"
)

// TicketMessage is one entry in a ticket's conversation thread.
type TicketMessage struct {
	ID             string
	TicketID       string
	Direction      MessageDirection
	SenderType     MessageSenderType
	SenderName     string
	SenderUserID   *string
	ContentType    MessageContentType
	ContentText    *string
	MediaURL       *string
	IsInternalNote bool
	CreatedAt      time.Time
}
