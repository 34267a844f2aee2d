package main

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/rolldice-skill/internal/dispatch"
	"bitbucket.org/sotavant/rolldice-skill/internal/identity"
	"bitbucket.org/sotavant/rolldice-skill/internal/locale"
	"bitbucket.org/sotavant/rolldice-skill/internal/logger"
	"bitbucket.org/sotavant/rolldice-skill/internal/ratelimit"
	"bitbucket.org/sotavant/rolldice-skill/internal/verify"
)

func main() {
	parseFlags()
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	if err := logger.Initialize(flagLogLevel); err != nil {
		return err
	}

	store, err := loadLocales(flagLocalesFile)
	if err != nil {
		return err
	}

	d := dispatch.New(newValidator(), store,
		dispatch.WithIdentityProvider(identity.NewGraphClient(flagGraphURL)),
		dispatch.WithDefaultName(flagDefaultName),
	)
	limiter := ratelimit.New(flagRateLimit, flagRateBurst, 10*time.Minute)

	logger.Log.Info("Running server",
		zap.String("address", flagRunAddr),
		zap.Strings("languages", store.Languages()),
	)

	return http.ListenAndServe(flagRunAddr, newRouter(newApp(d), limiter))
}

// loadLocales падает сразу, если в ресурсах не хватает сообщений.
func loadLocales(path string) (*locale.Store, error) {
	if path == "" {
		return locale.Default()
	}
	return locale.LoadFile(path)
}

func newValidator() dispatch.Validator {
	if flagSkipVerify {
		logger.Log.Warn("request signature verification is disabled")
		return verify.AcceptAll{}
	}
	return verify.New(verify.WithApplicationID(flagSkillID))
}

func newRouter(a *app, limiter *ratelimit.Limiter) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.With(rateLimitMiddleware(limiter)).Post("/", gzipMiddleware(a.webhook))

	return r
}

func rateLimitMiddleware(l *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !l.Allow(host, time.Now()) {
				logger.Log.Debug("rate limit exceeded", zap.String("client", host))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func gzipMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ow := w

		acceptEncoding := r.Header.Get("Accept-Encoding")
		supportGzip := strings.Contains(acceptEncoding, "gzip")

		if supportGzip {
			cw := newCompressWriter(w)
			ow = cw
			defer func(cw *compressWriter) {
				if err := cw.Close(); err != nil {
					logger.Log.Debug("compressWriterError", zap.Error(err))
				}
			}(cw)
		}

		contentEncoding := r.Header.Get("Content-Encoding")

		sendsGzip := strings.Contains(contentEncoding, "gzip")
		if sendsGzip {
			cr, err := newCompressReader(r.Body)
			if err != nil {
				logger.Log.Debug("newCompressReaderError", zap.Error(err))
				ow.WriteHeader(http.StatusBadRequest)
				return
			}
			r.Body = cr
			defer func(cr *compressReader) {
				if err := cr.Close(); err != nil {
					logger.Log.Debug("closeCompressReaderError", zap.Error(err))
				}
			}(cr)
		}

		h.ServeHTTP(ow, r)
	}
}
