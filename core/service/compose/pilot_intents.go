package compose

import (
	"mailpilot/core/domain"
)

// Model is the chat model every intent is sent to.
const Model = "gpt-4o-mini"

type requiredField struct {
	name    string
	message string
	value   func(domain.GenerationRequest) string
}

// intentDef holds everything that differs between intents.
type intentDef struct {
	required    []requiredField
	render      func(domain.GenerationRequest) string
	resultField string
	params      domain.GenerationParameters
	failure     string
}

var (
	standardParams  = domain.GenerationParameters{Model: Model, Temperature: 0.7, MaxOutputTokens: 500}
	summarizeParams = domain.GenerationParameters{Model: Model, Temperature: 0.5, MaxOutputTokens: 100}
)

var intents = map[domain.Intent]intentDef{
	domain.IntentDraft: {
		required: []requiredField{
			{name: "subject", message: "Email subject is required", value: func(r domain.GenerationRequest) string { return r.Subject }},
			{name: "body", message: "Email body is required", value: func(r domain.GenerationRequest) string { return r.Body }},
		},
		render:      draftPrompt,
		resultField: "draft",
		params:      standardParams,
		failure:     "Failed to generate draft",
	},
	domain.IntentImprove: {
		required: []requiredField{
			{name: "text", message: "Email text is required", value: func(r domain.GenerationRequest) string { return r.Text }},
		},
		render:      improvePrompt,
		resultField: "improved",
		params:      standardParams,
		failure:     "Failed to improve email",
	},
	domain.IntentRespond: {
		required: []requiredField{
			{name: "incomingEmail", message: "Incoming email is required", value: func(r domain.GenerationRequest) string { return r.IncomingEmail }},
		},
		render:      respondPrompt,
		resultField: "response",
		params:      standardParams,
		failure:     "Failed to generate response",
	},
	domain.IntentSummarize: {
		required: []requiredField{
			{name: "text", message: "Email text is required", value: func(r domain.GenerationRequest) string { return r.Text }},
		},
		render:      summarizePrompt,
		resultField: "summary",
		params:      summarizeParams,
		failure:     "Failed to summarize email",
	},
}
