package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/ports"
)

const (
	EncodingMultipart = "multipart"
	EncodingJSON      = "json"
)

// ErrSubmissionFailed is returned for any non-2xx response or transport failure.
// The caller keeps the entered fields so the visitor can resubmit.
var ErrSubmissionFailed = errors.New("form submission failed")

// Submitter implements ports.FormSubmitter against a generic form-collection endpoint.
type Submitter struct {
	endpoint string
	encoding string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.FormSubmitter = (*Submitter)(nil)

// NewSubmitter builds a submitter from configuration; a nil client gets one bounded by cfg.Timeout.
func NewSubmitter(cfg config.FormsConfig, client *http.Client, log *slog.Logger) *Submitter {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	encoding := strings.ToLower(strings.TrimSpace(cfg.Encoding))
	if encoding != EncodingJSON {
		encoding = EncodingMultipart
	}
	return &Submitter{
		endpoint: cfg.Endpoint,
		encoding: encoding,
		client:   client,
		logger:   log,
	}
}

// Submit posts the fields. Empty values are omitted.
func (s *Submitter) Submit(ctx context.Context, fields ports.FormFields) error {
	if s == nil || s.endpoint == "" {
		return fmt.Errorf("%w: submitter misconfigured", ErrSubmissionFailed)
	}

	body, contentType, err := s.encode(fields)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrSubmissionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: new request: %v", ErrSubmissionFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("form submission transport error", "form", fields.FormName, "error", err)
		}
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if s.logger != nil {
			s.logger.Warn("form submission rejected", "form", fields.FormName, "status", resp.StatusCode)
		}
		return fmt.Errorf("%w: %s: %s", ErrSubmissionFailed, resp.Status, strings.TrimSpace(string(payload)))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return nil
}

func (s *Submitter) encode(fields ports.FormFields) (io.Reader, string, error) {
	pairs := nonEmpty(fields)

	if s.encoding == EncodingJSON {
		payload := make(map[string]string, len(pairs))
		for _, p := range pairs {
			payload[p.Name] = p.Value
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(raw), "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range pairs {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// nonEmpty flattens fields with form_name first, skipping blanks.
func nonEmpty(fields ports.FormFields) []ports.FormValue {
	out := make([]ports.FormValue, 0, len(fields.Values)+1)
	if name := strings.TrimSpace(fields.FormName); name != "" {
		out = append(out, ports.FormValue{Name: "form_name", Value: name})
	}
	for _, v := range fields.Values {
		if v.Name == "" || v.Name == "form_name" || strings.TrimSpace(v.Value) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
