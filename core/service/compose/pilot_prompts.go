package compose

import (
	"strings"

	"mailpilot/core/domain"
)

// promptBuilder joins prompt lines with newlines. Fields are written as
// opaque text; nothing in them is escaped or interpreted.
type promptBuilder struct {
	lines []string
}

func (b *promptBuilder) line(s ...string) *promptBuilder {
	b.lines = append(b.lines, strings.Join(s, ""))
	return b
}

// optional adds the line only when value is non-empty.
func (b *promptBuilder) optional(label, value string) *promptBuilder {
	if value != "" {
		b.lines = append(b.lines, label+value)
	}
	return b
}

func (b *promptBuilder) blank() *promptBuilder {
	return b.line()
}

func (b *promptBuilder) String() string {
	return strings.Join(b.lines, "\n")
}

func draftPrompt(req domain.GenerationRequest) string {
	b := &promptBuilder{}
	b.line("You are an expert email writer. Given the following email information, generate a professional, polished version that sounds natural and is ready to send.").
		blank().
		line("Subject: ", req.Subject).
		line("Initial message: ", req.Body).
		optional("Recipient name: ", req.RecipientName).
		blank().
		line("Generate a refined version of this email that:").
		line("- Maintains the original intent and tone").
		line("- Is professional but personable").
		line("- Uses proper greeting and closing").
		line("- Is concise but complete").
		line("- Sounds authentic, not robotic").
		blank().
		line("Provide only the email body text, ready to send.")
	return b.String()
}

func improvePrompt(req domain.GenerationRequest) string {
	b := &promptBuilder{}
	b.line("You are an expert email editor. Improve the following email while maintaining its core message. ").
		line("Make it:").
		line("- More ", req.EffectiveTone()).
		line("- Clear and concise").
		line("- Well-structured with proper paragraphs").
		line("- Engaging but not overly casual").
		blank().
		line("Original email:").
		line(req.Text).
		blank().
		line("Provide only the improved email text, no explanations.")
	return b.String()
}

func respondPrompt(req domain.GenerationRequest) string {
	b := &promptBuilder{}
	b.line("You are a professional email assistant. Generate a helpful response to this email. ").
		line("The response should be:").
		line("- Professional and courteous").
		line("- Directly address the concerns raised").
		line("- Actionable and clear").
		line("- Concise but complete").
		blank()
	if req.Context != "" {
		b.line("Context about the sender or situation: ", req.Context).blank()
	}
	b.line("Incoming email:").
		line(req.IncomingEmail).
		blank().
		line("Generate a response email. Provide only the email body, starting with an appropriate greeting.")
	return b.String()
}

func summarizePrompt(req domain.GenerationRequest) string {
	b := &promptBuilder{}
	b.line("Summarize the following email in 1-2 sentences for a subject line. Be concise and capture the main point.").
		blank().
		line("Email:").
		line(req.Text).
		blank().
		line("Provide only the subject line, no quotes or explanations.")
	return b.String()
}
