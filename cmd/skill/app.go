package main

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/rolldice-skill/internal/dispatch"
	"bitbucket.org/sotavant/rolldice-skill/internal/logger"
	"bitbucket.org/sotavant/rolldice-skill/internal/models"
)

// maxBodyBytes ограничивает размер тела входящего запроса.
const maxBodyBytes = 1 << 20

type app struct {
	dispatcher *dispatch.Dispatcher
}

func newApp(d *dispatch.Dispatcher) *app {
	return &app{dispatcher: d}
}

func (a *app) webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		logger.Log.Debug("got request with bad method", zap.String("method", r.Method))

		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// тело нужно целиком: подпись проверяется по исходным байтам
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		logger.Log.Debug("cannot read request body", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req models.Request
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Log.Debug("cannot decode request JSON body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	outcome := a.dispatcher.Dispatch(ctx, models.RawRequest{
		Header:  r.Header,
		Body:    body,
		Request: req,
	})
	if outcome.Kind == dispatch.OutcomeRejected {
		logger.Log.Debug("request rejected")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	// сериализуем ответ сервера
	enc := json.NewEncoder(w)
	if err := enc.Encode(outcome.Reply.Response()); err != nil {
		logger.Log.Debug("error encoding response", zap.Error(err))
		return
	}
	logger.Log.Debug("sending HTTP 200 response", zap.Stringer("outcome", outcome.Kind))
}
