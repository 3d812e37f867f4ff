package model

// Invocation sources provided by the dialog platform on every turn.
const (
	SourceDialogCodeHook = "DialogCodeHook"
	SourceFulfillment    = "FulfillmentCodeHook"
)

// Fulfillment states accepted by the Close dialog action.
const (
	StateFulfilled = "Fulfilled"
	StateFailed    = "Failed"
)

// Intent names the bot dispatches on.
const (
	IntentDiningSuggestions = "DiningSuggestionsIntent"
	IntentGreeting          = "GreetingIntent"
	IntentThankYou          = "ThankYouIntent"
)

// Event is one dialog turn as delivered by the platform webhook.
type Event struct {
	CurrentIntent     Intent            `json:"currentIntent" validate:"required"`
	InvocationSource  string            `json:"invocationSource" validate:"required,oneof=DialogCodeHook FulfillmentCodeHook"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	UserID            string            `json:"userId"`
}

// Intent carries the intent name and the platform-filled slot values.
type Intent struct {
	Name  string  `json:"name" validate:"required"`
	Slots SlotSet `json:"slots"`
}

// Message is a user-facing prompt attached to a dialog action.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// PlainText builds a PlainText message.
func PlainText(content string) *Message {
	return &Message{ContentType: "PlainText", Content: content}
}

// DialogAction is the action half of a turn response. Which fields are set
// depends on Type (ElicitSlot, Delegate or Close).
type DialogAction struct {
	Type             string   `json:"type"`
	IntentName       string   `json:"intentName,omitempty"`
	Slots            *SlotSet `json:"slots,omitempty"`
	SlotToElicit     string   `json:"slotToElicit,omitempty"`
	FulfillmentState string   `json:"fulfillmentState,omitempty"`
	Message          *Message `json:"message,omitempty"`
}

// Response is the webhook reply for one turn. Session attributes are always
// echoed back so the platform keeps them across turns.
type Response struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}

// ElicitSlot asks the platform to re-prompt the user for one slot.
func ElicitSlot(session map[string]string, intentName string, slots SlotSet, slotToElicit string, msg *Message) *Response {
	return &Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:         "ElicitSlot",
			IntentName:   intentName,
			Slots:        &slots,
			SlotToElicit: slotToElicit,
			Message:      msg,
		},
	}
}

// Delegate hands the next prompt decision back to the platform.
func Delegate(session map[string]string, slots SlotSet) *Response {
	return &Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:  "Delegate",
			Slots: &slots,
		},
	}
}

// Close ends the intent with the given fulfillment state.
func Close(session map[string]string, state string, msg *Message) *Response {
	return &Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:             "Close",
			FulfillmentState: state,
			Message:          msg,
		},
	}
}
