// recognizer.go - Image recognizers and the HTTP predict client

package nutrition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Label is the top food a recognizer sees in an image.
type Label struct {
	Name       string  `json:"food"`
	Confidence float64 `json:"confidence"` // 0..1
}

// Recognizer identifies the food in an image.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (Label, error)
}

// DecodeImage accepts raw base64 or a data URI ("data:image/jpeg;base64,...").
func DecodeImage(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		i := strings.Index(payload, ",")
		if i < 0 || !strings.Contains(payload[:i], ";base64") {
			return nil, fmt.Errorf("%w: malformed data URI", ErrInvalidInput)
		}
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	img, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64: %v", ErrInvalidInput, err)
	}
	return img, nil
}

// PredictClient talks to an image model served over HTTP:
// POST {base}/predict {"image_base64": "..."} -> {"food": "...", "confidence": 0.93}.
type PredictClient struct {
	baseURL string
	client  *http.Client
}

func NewPredictClient(baseURL string, timeout time.Duration) *PredictClient {
	return &PredictClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *PredictClient) Name() string { return "predict" }

func (p *PredictClient) Recognize(ctx context.Context, image []byte) (Label, error) {
	payload, err := json.Marshal(map[string]string{
		"image_base64": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return Label{}, fmt.Errorf("%w: marshal predict payload: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return Label{}, fmt.Errorf("%w: build predict request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Label{}, fmt.Errorf("%w: call predict service: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Label{}, fmt.Errorf("%w: read predict response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Label{}, fmt.Errorf("%w: predict service status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var l Label
	if err := json.Unmarshal(body, &l); err != nil {
		return Label{}, fmt.Errorf("%w: parse predict JSON: %v", ErrUpstream, err)
	}
	if l.Name == "" || strings.EqualFold(l.Name, "unknown") {
		return Label{}, ErrNotFound
	}
	return l, nil
}
