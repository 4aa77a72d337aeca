package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public Gemini endpoint root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// REST talks to the generateContent endpoint with hand-built JSON, sending
// the API key as the key query parameter.
type REST struct {
	BaseURL string
	// Transport is used for every request; nil means http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

type restRequest struct {
	Contents         []restContent  `json:"contents"`
	GenerationConfig *restGenConfig `json:"generationConfig,omitempty"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *restInlineData `json:"inline_data,omitempty"`
}

type restInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type restGenConfig struct {
	ResponseMIMEType string `json:"response_mime_type"`
}

type restResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *REST) endpoint(model, apiKey string) string {
	base := r.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/models/%s:generateContent?%s",
		strings.TrimRight(base, "/"), url.PathEscape(model), url.Values{"key": {apiKey}}.Encode())
}

func buildRESTBody(req Request) restRequest {
	parts := make([]restPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Data != nil {
			parts = append(parts, restPart{InlineData: &restInlineData{
				MIMEType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		parts = append(parts, restPart{Text: p.Text})
	}
	body := restRequest{Contents: []restContent{{Parts: parts}}}
	if req.JSON {
		body.GenerationConfig = &restGenConfig{ResponseMIMEType: "application/json"}
	}
	return body
}

// GenerateContent implements Backend.
func (r *REST) GenerateContent(ctx context.Context, req Request) (string, error) {
	log := loggerOrDefault(r.Logger).With("model", req.Model)

	payload, err := json.Marshal(buildRESTBody(req))
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint(req.Model, req.APIKey), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Transport: r.Transport, Timeout: req.Timeout}

	log.Info("sending request to Gemini API", "body_bytes", len(payload), "timeout", req.Timeout)
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	log.Info("Gemini API responded", "status", resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if req.CaptureErrorBody {
			b, _ := io.ReadAll(resp.Body)
			apiErr.Body = strings.TrimSpace(string(b))
			log.Warn("Gemini API error body", "body", apiErr.Body)
		}
		return "", apiErr
	}

	var decoded restResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrTransport, err)
	}
	return firstText(decoded)
}

func firstText(r restResponse) (string, error) {
	if len(r.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return "", fmt.Errorf("%w: first candidate has no text part", ErrMalformedResponse)
	}
	return *parts[0].Text, nil
}
