package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	genai "google.golang.org/genai"
)

// SDK sends requests through the official google.golang.org/genai client.
// The key travels in the x-goog-api-key header instead of the query string.
type SDK struct {
	BaseURL string
	// Transport is used for every request; nil means http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// splitBaseURL turns ".../v1beta" into the host root and API version the
// genai client expects as separate options.
func splitBaseURL(base string) genai.HTTPOptions {
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil || u.Path == "" {
		return genai.HTTPOptions{BaseURL: base}
	}
	i := strings.LastIndex(u.Path, "/")
	version := u.Path[i+1:]
	u.Path = u.Path[:i] + "/"
	return genai.HTTPOptions{BaseURL: u.String(), APIVersion: version}
}

// GenerateContent implements Backend.
func (s *SDK) GenerateContent(ctx context.Context, req Request) (string, error) {
	log := loggerOrDefault(s.Logger).With("model", req.Model, "backend", "sdk")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      req.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Transport: s.Transport, Timeout: req.Timeout},
		HTTPOptions: splitBaseURL(s.BaseURL),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Data != nil {
			parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data}})
			continue
		}
		parts = append(parts, &genai.Part{Text: p.Text})
	}
	content := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	var gc *genai.GenerateContentConfig
	if req.JSON {
		gc = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	log.Info("sending request to Gemini API", "parts", len(parts), "timeout", req.Timeout)
	res, err := c.Models.GenerateContent(ctx, req.Model, content, gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			out := &APIError{StatusCode: apiErr.Code}
			if req.CaptureErrorBody {
				out.Body = apiErr.Message
			}
			return "", out
		}
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	ps := res.Candidates[0].Content.Parts
	if len(ps) == 0 || ps[0] == nil || ps[0].Text == "" {
		return "", fmt.Errorf("%w: first candidate has no text part", ErrMalformedResponse)
	}
	return ps[0].Text, nil
}
