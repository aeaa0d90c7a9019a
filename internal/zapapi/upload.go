package zapapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"zaplink/internal/models"
)

// Upload posts a zap to /api/zaps/upload as multipart form data.
func (c *Client) Upload(ctx context.Context, up *models.UploadRequest) (*models.SubmissionResult, error) {
	body, contentType, err := encodeUpload(up)
	if err != nil {
		return nil, fmt.Errorf("encoding upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/zaps/upload", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, "zapapi.Upload", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	result, err := decodeData[models.SubmissionResult](resp)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Str("zap_id", result.ZapID).Str("type", up.Type).Msg("zap uploaded")
	return &result, nil
}

// encodeUpload builds the multipart body. The field set depends on which
// payload member is populated.
func encodeUpload(up *models.UploadRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", up.Name},
		{"type", up.Type},
	}
	switch {
	case up.File != nil:
	case up.OriginalURL != "":
		// Both names are accepted by deployed backends.
		fields = append(fields, [2]string{"originalUrl", up.OriginalURL}, [2]string{"url", up.OriginalURL})
	default:
		fields = append(fields, [2]string{"textContent", up.TextContent})
	}
	if up.Password != "" {
		fields = append(fields, [2]string{"password", up.Password})
	}
	if up.ViewLimit > 0 {
		fields = append(fields, [2]string{"viewLimit", strconv.FormatUint(up.ViewLimit, 10)})
	}
	if up.ExpiresAt != nil {
		fields = append(fields, [2]string{"expiresAt", up.ExpiresAt.UTC().Format(time.RFC3339)})
	}

	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if up.File != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, up.File.Name))
		ct := up.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(up.File.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
