package dispatch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/rolldice-skill/internal/locale"
	"bitbucket.org/sotavant/rolldice-skill/internal/logger"
	"bitbucket.org/sotavant/rolldice-skill/internal/metrics"
	"bitbucket.org/sotavant/rolldice-skill/internal/models"
)

// DefaultName greets callers whose name could not be looked up.
const DefaultName = "Sconosciuto"

func (d *Dispatcher) sessionStarted(ctx context.Context, req models.Request, loc locale.Locale) (Reply, error) {
	logger.Log.Info("session started", zap.String("session_id", req.Session.SessionID))

	name := d.displayName(ctx, req.AccessToken())

	welcome, err := loc.Get(locale.Welcome, name)
	if err != nil {
		return Reply{}, err
	}
	reprompt, err := loc.Get(locale.WelcomeReprompt)
	if err != nil {
		return Reply{}, err
	}
	return Ask(welcome, reprompt), nil
}

// displayName never fails: personalization is best effort and every failure
// degrades to the default name.
func (d *Dispatcher) displayName(ctx context.Context, token string) string {
	if strings.TrimSpace(token) == "" {
		metrics.RecordIdentityFallback("no_token")
		return d.defaultName
	}
	if d.identity == nil {
		metrics.RecordIdentityFallback("no_provider")
		return d.defaultName
	}

	name, err := d.identity.LookupDisplayName(ctx, token)
	if err != nil {
		logger.Log.Debug("cannot look up display name", zap.Error(err))
		metrics.RecordIdentityFallback("lookup_failed")
		return d.defaultName
	}
	if name = strings.TrimSpace(name); name == "" {
		metrics.RecordIdentityFallback("empty_name")
		return d.defaultName
	}
	return name
}

func (d *Dispatcher) sessionEnded(req models.Request) Reply {
	logger.Log.Info("session ended",
		zap.String("session_id", req.Session.SessionID),
		zap.String("reason", req.Request.Reason),
	)
	return Empty()
}
