// Package dispatch routes a validated voice request to the logic that answers it.
//
// Every call to Dispatch ends in exactly one terminal outcome:
//
//	Start -> Validated -> LocaleResolved -> (session start | intent | session end) -> Handled
//	Start -> Rejected                      (validation failed, nothing rendered)
//	LocaleResolved -> ... -> Faulted       (any handler error, localized apology)
package dispatch

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/rolldice-skill/internal/locale"
	"bitbucket.org/sotavant/rolldice-skill/internal/logger"
	"bitbucket.org/sotavant/rolldice-skill/internal/metrics"
	"bitbucket.org/sotavant/rolldice-skill/internal/models"
)

type OutcomeKind int

const (
	OutcomeHandled OutcomeKind = iota
	OutcomeRejected
	OutcomeFaulted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeHandled:
		return "handled"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one dispatch. Reply is zero for OutcomeRejected.
type Outcome struct {
	Kind  OutcomeKind
	Reply Reply
}

type Dispatcher struct {
	validator   Validator
	identity    IdentityProvider
	store       *locale.Store
	defaultName string
	draw        func(n int) int
}

type Option func(*Dispatcher)

func WithIdentityProvider(p IdentityProvider) Option {
	return func(d *Dispatcher) {
		d.identity = p
	}
}

func WithDefaultName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.defaultName = name
		}
	}
}

// WithDraw replaces the random source; draw(n) must return a value in [0, n).
func WithDraw(draw func(n int) int) Option {
	return func(d *Dispatcher) {
		d.draw = draw
	}
}

// New creates a Dispatcher. store must be fully populated and is never modified.
func New(v Validator, store *locale.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		validator:   v,
		store:       store,
		defaultName: DefaultName,
		draw:        rand.Intn,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Dispatch(ctx context.Context, raw models.RawRequest) Outcome {
	valid, err := d.validator.Validate(ctx, raw)
	if err != nil {
		logger.Log.Debug("request validation failed", zap.Error(err))
		valid = false
	}
	if !valid {
		metrics.RecordOutcome(OutcomeRejected.String())
		return Outcome{Kind: OutcomeRejected}
	}

	req := raw.Request
	loc := locale.Resolve(req.Request.Locale, d.store)
	logger.Log.Debug("dispatching request",
		zap.String("request_id", req.Request.RequestID),
		zap.String("type", req.Request.Type),
		zap.String("language", loc.Language()),
	)

	reply, err := d.route(ctx, req, loc)
	if err != nil {
		return d.fault(loc, err)
	}

	metrics.RecordOutcome(OutcomeHandled.String())
	return Outcome{Kind: OutcomeHandled, Reply: reply}
}

func (d *Dispatcher) route(ctx context.Context, req models.Request, loc locale.Locale) (Reply, error) {
	switch req.Request.Type {
	case models.TypeLaunchRequest:
		metrics.RecordRequest(req.Request.Type, "")
		return d.sessionStarted(ctx, req, loc)

	case models.TypeIntentRequest:
		return d.intent(req.Request.Intent, loc)

	case models.TypeSessionEndedRequest:
		metrics.RecordRequest(req.Request.Type, "")
		return d.sessionEnded(req), nil

	default:
		logger.Log.Debug("unsupported request type", zap.String("type", req.Request.Type))
		metrics.RecordRequest("other", "")
		return Empty(), nil
	}
}

func (d *Dispatcher) intent(intent models.Intent, loc locale.Locale) (Reply, error) {
	reply, handled, err := handleSystemIntent(intent.Name, loc)
	if handled {
		metrics.RecordRequest(models.TypeIntentRequest, intent.Name)
		return reply, err
	}

	if intent.Name == IntentRollDice {
		metrics.RecordRequest(models.TypeIntentRequest, intent.Name)
		return rollDice(intent, loc, d.draw)
	}

	// unrecognized intents get the help prompt instead of silence
	logger.Log.Debug("unknown intent", zap.String("intent", intent.Name))
	metrics.RecordRequest(models.TypeIntentRequest, "other")
	help, err := loc.Get(locale.Help)
	if err != nil {
		return Reply{}, err
	}
	return Ask(help, help), nil
}

// fault renders the localized apology. The session stays open so the caller
// can repeat the turn.
func (d *Dispatcher) fault(loc locale.Locale, cause error) Outcome {
	logger.Log.Info("request faulted", zap.Error(cause))
	metrics.RecordOutcome(OutcomeFaulted.String())

	msg, err := loc.Get(locale.Error)
	if err != nil {
		logger.Log.Error("cannot render error message", zap.Error(err))
	}
	reply := Tell(msg)
	reply.ContinuesSession = true
	return Outcome{Kind: OutcomeFaulted, Reply: reply}
}
