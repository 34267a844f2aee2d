package models

import (
	"net/http"
	"time"
)

const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"

	SpeechPlainText = "PlainText"

	Version = "1.0"
)

// Request описывает запрос голосовой платформы.
// См. https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type Request struct {
	Version string         `json:"version"`
	Session Session        `json:"session"`
	Context Context        `json:"context"`
	Request RequestPayload `json:"request"`
}

type Session struct {
	New         bool        `json:"new"`
	SessionID   string      `json:"sessionId"`
	Application Application `json:"application"`
	User        User        `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
}

type Context struct {
	System System `json:"System"`
}

type System struct {
	Application Application `json:"application"`
	User        User        `json:"user"`
}

// RequestPayload is the typed part of the request: launch, intent or session end.
type RequestPayload struct {
	Type      string    `json:"type"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Locale    string    `json:"locale"`
	Intent    Intent    `json:"intent"`
	Reason    string    `json:"reason,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the value of the named slot and whether the slot carried one.
func (i Intent) SlotValue(name string) (string, bool) {
	s, ok := i.Slots[name]
	if !ok || s.Value == "" {
		return "", false
	}
	return s.Value, true
}

// AccessToken returns the linked account token, preferring the session copy.
func (r Request) AccessToken() string {
	if r.Session.User.AccessToken != "" {
		return r.Session.User.AccessToken
	}
	return r.Context.System.User.AccessToken
}

// ApplicationID returns the id of the skill the request was addressed to.
func (r Request) ApplicationID() string {
	if r.Session.Application.ApplicationID != "" {
		return r.Session.Application.ApplicationID
	}
	return r.Context.System.Application.ApplicationID
}

// RawRequest is what request validation sees: the transport headers, the exact body bytes
// and the decoded envelope.
type RawRequest struct {
	Header  http.Header
	Body    []byte
	Request Request
}

// Response описывает ответ сервера.
type Response struct {
	Version  string          `json:"version"`
	Response ResponsePayload `json:"response"`
}

type ResponsePayload struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech"`
}

// PlainText builds a plain text speech payload.
func PlainText(text string) *OutputSpeech {
	return &OutputSpeech{Type: SpeechPlainText, Text: text}
}
