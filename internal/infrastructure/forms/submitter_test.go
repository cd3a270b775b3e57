package forms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/ports"
)

func contactFields() ports.FormFields {
	return ports.FormFields{
		FormName: "Coach Contact Form",
		Values: []ports.FormValue{
			{Name: "name", Value: "Alex"},
			{Name: "email", Value: "alex@example.com"},
			{Name: "message", Value: "Hi"},
			{Name: "phone", Value: ""},
		},
	}
}

func TestSubmitMultipart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		assert.Equal(t, "Coach Contact Form", r.FormValue("form_name"))
		assert.Equal(t, "Alex", r.FormValue("name"))
		assert.Equal(t, "alex@example.com", r.FormValue("email"))
		assert.Equal(t, "Hi", r.FormValue("message"))
		_, hasPhone := r.MultipartForm.Value["phone"]
		assert.False(t, hasPhone, "empty fields must be omitted")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSubmitter(config.FormsConfig{Endpoint: srv.URL}, srv.Client(), nil)
	require.NoError(t, s.Submit(context.Background(), contactFields()))
}

func TestSubmitJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		assert.Equal(t, map[string]string{
			"form_name": "Coach Contact Form",
			"name":      "Alex",
			"email":     "alex@example.com",
			"message":   "Hi",
		}, payload)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSubmitter(config.FormsConfig{Endpoint: srv.URL, Encoding: "JSON"}, srv.Client(), nil)
	require.NoError(t, s.Submit(context.Background(), contactFields()))
}

func TestSubmitNon2xxFails(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "/elsewhere")
			w.WriteHeader(status)
		}))

		client := srv.Client()
		client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
		s := NewSubmitter(config.FormsConfig{Endpoint: srv.URL}, client, nil)
		err := s.Submit(context.Background(), contactFields())
		assert.ErrorIs(t, err, ErrSubmissionFailed, "status %d", status)
		srv.Close()
	}
}

func TestSubmitTransportErrorFails(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	s := NewSubmitter(config.FormsConfig{Endpoint: srv.URL}, &http.Client{Timeout: 20 * time.Millisecond}, nil)
	err := s.Submit(context.Background(), contactFields())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubmissionFailed))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubmitMisconfigured(t *testing.T) {
	t.Parallel()

	s := NewSubmitter(config.FormsConfig{}, nil, nil)
	assert.ErrorIs(t, s.Submit(context.Background(), contactFields()), ErrSubmissionFailed)
}
