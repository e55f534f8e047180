package cart

// MessageLevel distinguishes informational notices from warnings
type MessageLevel string

const (
	MessageLevelInfo    MessageLevel = "info"
	MessageLevelWarning MessageLevel = "warning"
)

// Message is a human-readable status for the presentation layer
type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

const (
	msgQuantityUpdated = "This item quantity was updated in your cart"
	msgItemAdded       = "This item was added to your cart"
	msgItemRemoved     = "This item was removed from your cart"
	msgAddressSaved    = "Your billing address was saved"
	msgPaymentSelected = "Payment option selected"
)

func infoMessage(text string) Message {
	return Message{Level: MessageLevelInfo, Text: text}
}

func warningMessage(text string) Message {
	return Message{Level: MessageLevelWarning, Text: text}
}
