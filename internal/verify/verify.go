// Package verify authenticates requests signed by the voice platform.
//
// Each request carries the URL of the platform's signing certificate chain
// and an RSA-SHA256 signature of the body. A request is accepted when:
//
//   - the chain URL is https://s3.amazonaws.com[:443]/echo.api/...,
//   - the chain verifies for echo-api.amazon.com and is currently valid,
//   - the signature matches the exact body bytes,
//   - the request timestamp is within the tolerance of the local clock,
//   - the request is addressed to the configured skill id, if any.
package verify

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"bitbucket.org/sotavant/rolldice-skill/internal/models"
)

const (
	HeaderCertChainURL = "SignatureCertChainUrl"
	HeaderSignature    = "Signature-256"

	DefaultTolerance = 150 * time.Second

	certHost       = "s3.amazonaws.com"
	certPathPrefix = "/echo.api/"
	signerDNSName  = "echo-api.amazon.com"
)

var (
	ErrCertURL       = errors.New("verify: bad certificate chain url")
	ErrCertificate   = errors.New("verify: bad certificate chain")
	ErrSignature     = errors.New("verify: bad signature")
	ErrTimestamp     = errors.New("verify: request timestamp out of tolerance")
	ErrApplicationID = errors.New("verify: unexpected application id")
)

// Fetcher downloads the PEM encoded certificate chain at url.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

type Verifier struct {
	fetch         Fetcher
	roots         *x509.CertPool
	now           func() time.Time
	tolerance     time.Duration
	applicationID string

	mu    sync.Mutex
	certs map[string]*x509.Certificate
}

type Option func(*Verifier)

// WithApplicationID rejects requests addressed to any other skill.
func WithApplicationID(id string) Option {
	return func(v *Verifier) {
		v.applicationID = id
	}
}

// WithRoots replaces the system root pool.
func WithRoots(roots *x509.CertPool) Option {
	return func(v *Verifier) {
		v.roots = roots
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

func WithFetcher(f Fetcher) Option {
	return func(v *Verifier) {
		v.fetch = f
	}
}

func New(opts ...Option) *Verifier {
	v := &Verifier{
		fetch:     restyFetcher(resty.New().SetTimeout(5 * time.Second)),
		now:       time.Now,
		tolerance: DefaultTolerance,
		certs:     make(map[string]*x509.Certificate),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func restyFetcher(client *resty.Client) Fetcher {
	return func(ctx context.Context, url string) ([]byte, error) {
		resp, err := client.R().SetContext(ctx).Get(url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
		}
		return resp.Body(), nil
	}
}

// Validate reports whether raw is an authentic platform request. The error
// explains a negative answer.
func (v *Verifier) Validate(ctx context.Context, raw models.RawRequest) (bool, error) {
	if v.applicationID != "" && raw.Request.ApplicationID() != v.applicationID {
		return false, ErrApplicationID
	}
	if err := v.checkTimestamp(raw.Request.Request.Timestamp); err != nil {
		return false, err
	}

	chainURL := raw.Header.Get(HeaderCertChainURL)
	if err := checkCertURL(chainURL); err != nil {
		return false, err
	}

	sig, err := base64.StdEncoding.DecodeString(raw.Header.Get(HeaderSignature))
	if err != nil || len(sig) == 0 {
		return false, fmt.Errorf("%w: cannot decode header", ErrSignature)
	}

	cert, err := v.certificate(ctx, chainURL)
	if err != nil {
		return false, err
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return false, fmt.Errorf("%w: not an RSA key", ErrCertificate)
	}

	digest := sha256.Sum256(raw.Body)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return false, fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return true, nil
}

func (v *Verifier) checkTimestamp(ts time.Time) error {
	if ts.IsZero() {
		return fmt.Errorf("%w: missing", ErrTimestamp)
	}
	d := v.now().Sub(ts)
	if d < 0 {
		d = -d
	}
	if d > v.tolerance {
		return fmt.Errorf("%w: off by %s", ErrTimestamp, d)
	}
	return nil
}

func checkCertURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return fmt.Errorf("%w: %q", ErrCertURL, raw)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return fmt.Errorf("%w: scheme %q", ErrCertURL, u.Scheme)
	}
	if !strings.EqualFold(u.Hostname(), certHost) {
		return fmt.Errorf("%w: host %q", ErrCertURL, u.Hostname())
	}
	if p := u.Port(); p != "" && p != "443" {
		return fmt.Errorf("%w: port %q", ErrCertURL, p)
	}
	// path comparison is case sensitive, after resolving dot segments
	if !strings.HasPrefix(path.Clean(u.Path), certPathPrefix) {
		return fmt.Errorf("%w: path %q", ErrCertURL, u.Path)
	}
	return nil
}

// certificate returns the verified signing certificate for chainURL, fetching
// it on first use and again after it expires.
func (v *Verifier) certificate(ctx context.Context, chainURL string) (*x509.Certificate, error) {
	now := v.now()

	v.mu.Lock()
	cert, ok := v.certs[chainURL]
	v.mu.Unlock()
	if ok && now.Before(cert.NotAfter) && now.After(cert.NotBefore) {
		return cert, nil
	}

	data, err := v.fetch(ctx, chainURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", ErrCertificate, err)
	}
	cert, err = verifyChain(data, v.roots, now)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.certs[chainURL] = cert
	v.mu.Unlock()
	return cert, nil
}

func verifyChain(data []byte, roots *x509.CertPool, now time.Time) (*x509.Certificate, error) {
	var chain []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		c, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCertificate, err)
		}
		chain = append(chain, c)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: no certificates", ErrCertificate)
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		intermediates.AddCert(c)
	}

	leaf := chain[0]
	_, err := leaf.Verify(x509.VerifyOptions{
		DNSName:       signerDNSName,
		Intermediates: intermediates,
		Roots:         roots,
		CurrentTime:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCertificate, err)
	}
	return leaf, nil
}

// AcceptAll trusts every request. It is meant for local development only.
type AcceptAll struct{}

func (AcceptAll) Validate(context.Context, models.RawRequest) (bool, error) {
	return true, nil
}
