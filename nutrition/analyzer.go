// analyzer.go - One entry point for text, image and barcode analysis

package nutrition

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Analyzer picks the configured source for each kind of input and makes sure
// every path ends in a Result: source failures degrade to the estimator or to
// the barcode placeholder, only bad input is reported as an error.
type Analyzer struct {
	estimator  *Estimator
	text       TextSource
	barcode    BarcodeSource
	recognizer Recognizer
	timeout    time.Duration
	log        *slog.Logger
}

type Option func(*Analyzer)

func WithTextSource(s TextSource) Option       { return func(a *Analyzer) { a.text = s } }
func WithBarcodeSource(s BarcodeSource) Option { return func(a *Analyzer) { a.barcode = s } }
func WithRecognizer(r Recognizer) Option       { return func(a *Analyzer) { a.recognizer = r } }
func WithTimeout(d time.Duration) Option       { return func(a *Analyzer) { a.timeout = d } }
func WithLogger(l *slog.Logger) Option         { return func(a *Analyzer) { a.log = l } }

func NewAnalyzer(est *Estimator, opts ...Option) *Analyzer {
	if est == nil {
		est = NewEstimator(nil)
	}
	a := &Analyzer{
		estimator: est,
		timeout:   5 * time.Second,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.text == nil {
		a.text = localText{est: est}
	}
	return a
}

// Estimator exposes the keyword estimator backing this analyzer.
func (a *Analyzer) Estimator() *Estimator { return a.estimator }

// AnalyzeText estimates nutrition for a free-text description.
func (a *Analyzer) AnalyzeText(ctx context.Context, query string, p Portion) Result {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.text.AnalyzeText(ctx, query)
	if err != nil {
		a.log.Warn("text source failed, using estimator",
			"source", a.text.Name(), "query", query, "error", err)
		return a.fallbackEstimate(query, p)
	}
	return res.Scale(p)
}

// AnalyzeImage recognizes the food in a base64 image and estimates it.
// The only error is an undecodable image.
func (a *Analyzer) AnalyzeImage(ctx context.Context, imageBase64 string, p Portion) (Result, error) {
	img, err := DecodeImage(imageBase64)
	if err != nil {
		return Result{}, err
	}
	if a.recognizer == nil {
		a.log.Info("no image recognizer configured, using default estimate")
		return a.fallbackEstimate("", p), nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	label, err := a.recognizer.Recognize(ctx, img)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.Warn("image recognition failed", "recognizer", a.recognizer.Name(), "error", err)
		}
		return a.fallbackEstimate("", p), nil
	}

	res := FromEstimate(label.Name, a.estimator.Estimate(label.Name, p), p)
	res.Source = a.recognizer.Name()
	res.Confidence = label.Confidence
	return res, nil
}

// LookupBarcode resolves a barcode. Unknown products, source failures and
// malformed codes all return BarcodeFallback so the client can still log something.
func (a *Analyzer) LookupBarcode(ctx context.Context, code string) (Result, error) {
	code = strings.TrimSpace(code)
	if !validBarcode(code) {
		a.log.Info("malformed barcode, serving placeholder", "code", code)
		return BarcodeFallback(), nil
	}
	if a.barcode == nil {
		return BarcodeFallback(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.barcode.LookupBarcode(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		a.log.Info("barcode not found", "code", code)
		return BarcodeFallback(), nil
	case err != nil:
		a.log.Warn("barcode lookup failed", "code", code, "error", err)
		return BarcodeFallback(), nil
	}
	return res, nil
}

func (a *Analyzer) fallbackEstimate(name string, p Portion) Result {
	res := FromEstimate(name, a.estimator.Estimate(name, p), p)
	res.Fallback = true
	res.Confidence = 0
	return res
}

func validBarcode(code string) bool {
	if len(code) < 6 || len(code) > 14 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
