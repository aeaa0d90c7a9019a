package zapapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"zaplink/internal/models"
)

// resolveBody is the raw resolve payload. Which fields are set depends on Type.
type resolveBody struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Data    string `json:"data"`
	Name    string `json:"name"`
}

// Resolve looks up a short link. password is sent only when non-empty.
func (c *Client) Resolve(ctx context.Context, shortID, password string) (models.Content, error) {
	target := c.baseURL + "/api/zaps/" + url.PathEscape(shortID)
	if password != "" {
		target += "?" + url.Values{"password": {password}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, "zapapi.Resolve", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode <= 399:
		loc, err := resp.Location()
		if err != nil {
			return nil, fmt.Errorf("%w: redirect without location", ErrUnexpectedContent)
		}
		return models.RedirectContent{ContentKind: models.KindRedirect, URL: loc.String()}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, decodeError(resp)
	}

	// Only a JSON description or a 3xx redirect is a valid answer. The request
	// URL may carry the password and has already been spent against the view
	// limit, so it is never handed to the visitor.
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "application/json" {
		return nil, fmt.Errorf("%w: content type %q", ErrUnexpectedContent, mt)
	}

	var body resolveBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 32<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return body.content()
}

// content maps the payload onto the Content sum type.
func (b resolveBody) content() (models.Content, error) {
	switch kind := models.ContentKind(b.Type); kind {
	case models.KindRedirect, models.KindFile:
		if b.URL == "" {
			return nil, fmt.Errorf("%w: %s without url", ErrUnexpectedContent, kind)
		}
		return models.RedirectContent{ContentKind: kind, URL: b.URL}, nil
	case models.KindText, models.KindDocument:
		return models.DocumentContent{ContentKind: kind, Name: b.Name, Body: b.Content}, nil
	case models.KindImage:
		if b.Data == "" {
			return nil, fmt.Errorf("%w: image without data", ErrUnexpectedContent)
		}
		return models.ImageContent{Name: b.Name, DataURI: b.Data}, nil
	case "":
		// Older backends answer {url} only.
		if b.URL != "" {
			return models.RedirectContent{ContentKind: models.KindRedirect, URL: b.URL}, nil
		}
	}
	return nil, fmt.Errorf("%w: type %q", ErrUnexpectedContent, b.Type)
}
