package dispatch

import "bitbucket.org/sotavant/rolldice-skill/internal/models"

type ReplyKind int

const (
	ReplyEmpty ReplyKind = iota
	ReplyAsk
	ReplyTell
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyAsk:
		return "ask"
	case ReplyTell:
		return "tell"
	default:
		return "empty"
	}
}

// Reply is the spoken answer of one turn.
type Reply struct {
	Kind             ReplyKind
	Speech           string
	Reprompt         string
	ContinuesSession bool
}

// Ask speaks and waits for the caller, repeating reprompt on silence.
func Ask(speech, reprompt string) Reply {
	return Reply{Kind: ReplyAsk, Speech: speech, Reprompt: reprompt, ContinuesSession: true}
}

// Tell speaks and ends the session.
func Tell(speech string) Reply {
	return Reply{Kind: ReplyTell, Speech: speech}
}

// Empty acknowledges without speaking and ends the session.
func Empty() Reply {
	return Reply{Kind: ReplyEmpty}
}

// Response renders the reply into the platform envelope.
func (r Reply) Response() models.Response {
	payload := models.ResponsePayload{ShouldEndSession: !r.ContinuesSession}
	switch r.Kind {
	case ReplyAsk:
		payload.OutputSpeech = models.PlainText(r.Speech)
		payload.Reprompt = &models.Reprompt{OutputSpeech: models.PlainText(r.Reprompt)}
	case ReplyTell:
		payload.OutputSpeech = models.PlainText(r.Speech)
	}
	return models.Response{Version: models.Version, Response: payload}
}
