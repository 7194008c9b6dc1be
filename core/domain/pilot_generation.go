package domain

// Intent is the email-editing operation a generation request asks for.
type Intent string

const (
	IntentDraft     Intent = "draft"
	IntentImprove   Intent = "improve"
	IntentRespond   Intent = "respond"
	IntentSummarize Intent = "summarize"
)

// Intents lists every supported intent in a stable order.
var Intents = []Intent{IntentDraft, IntentImprove, IntentRespond, IntentSummarize}

// IsValid reports whether i is one of the supported intents.
func (i Intent) IsValid() bool {
	switch i {
	case IntentDraft, IntentImprove, IntentRespond, IntentSummarize:
		return true
	}
	return false
}

// DefaultTone is interpolated into improve prompts when no tone is given.
const DefaultTone = "professional"

// GenerationRequest is a tagged union discriminated by Kind. Only the fields
// belonging to Kind are read:
//
//	draft:     Subject, Body, RecipientName (optional)
//	improve:   Text, Tone (optional, defaults to DefaultTone)
//	respond:   IncomingEmail, Context (optional)
//	summarize: Text
type GenerationRequest struct {
	Kind Intent `json:"kind"`

	Subject       string `json:"subject,omitempty"`
	Body          string `json:"body,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`

	Text string `json:"text,omitempty"`
	Tone string `json:"tone,omitempty"`

	IncomingEmail string `json:"incomingEmail,omitempty"`
	Context       string `json:"context,omitempty"`
}

func NewDraftRequest(subject, body, recipientName string) GenerationRequest {
	return GenerationRequest{Kind: IntentDraft, Subject: subject, Body: body, RecipientName: recipientName}
}

func NewImproveRequest(text, tone string) GenerationRequest {
	return GenerationRequest{Kind: IntentImprove, Text: text, Tone: tone}
}

func NewRespondRequest(incomingEmail, senderContext string) GenerationRequest {
	return GenerationRequest{Kind: IntentRespond, IncomingEmail: incomingEmail, Context: senderContext}
}

func NewSummarizeRequest(text string) GenerationRequest {
	return GenerationRequest{Kind: IntentSummarize, Text: text}
}

// EffectiveTone returns the tone to interpolate, applying the default.
func (r GenerationRequest) EffectiveTone() string {
	if r.Tone == "" {
		return DefaultTone
	}
	return r.Tone
}

// GenerationParameters are the fixed decoding settings of an intent.
type GenerationParameters struct {
	Model           string  `json:"model"`
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

// GenerationResult carries generated text under the intent's result field.
type GenerationResult struct {
	Intent      Intent `json:"-"`
	ResultField string `json:"-"`
	Value       string `json:"-"`
}

// Payload renders the result as the response body, e.g. {"draft": "..."}.
func (r *GenerationResult) Payload() map[string]string {
	return map[string]string{r.ResultField: r.Value}
}
