package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/ports"
	"ClimbCoach/internal/signup"
	"ClimbCoach/internal/validation"
)

type fakeSubmitter struct {
	mu   sync.Mutex
	err  error
	sent []ports.FormFields
}

func (f *fakeSubmitter) Submit(_ context.Context, fields ports.FormFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, fields)
	return f.err
}

type fakeLeads struct {
	saved []domain.Lead
	err   error
}

func (f *fakeLeads) SaveLead(_ context.Context, lead domain.Lead) error {
	f.saved = append(f.saved, lead)
	return f.err
}

type fakeNotifier struct {
	notified []domain.Lead
}

func (f *fakeNotifier) NotifyLead(_ context.Context, lead domain.Lead) error {
	f.notified = append(f.notified, lead)
	return nil
}

func testForms(sub *fakeSubmitter, leads *fakeLeads, notifier *fakeNotifier) *Forms {
	deps := FormsDeps{Submitter: sub}
	if leads != nil {
		deps.Leads = leads
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	return NewForms(deps, config.FormsConfig{CountryCode: "1"})
}

func TestContactValidation(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	forms := testForms(sub, nil, nil)

	err := forms.Contact(context.Background(), ContactInput{Name: " ", Email: "nope", Message: "Hi"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Empty(t, sub.sent, "invalid input is never sent")
}

func TestContactSubmitsAndRecords(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	leads := &fakeLeads{}
	notifier := &fakeNotifier{}
	forms := testForms(sub, leads, notifier)

	err := forms.Contact(context.Background(), ContactInput{Name: "Alex", Email: "alex@example.com", Message: "Hello"})
	require.NoError(t, err)

	require.Len(t, sub.sent, 1)
	assert.Equal(t, "Coach Contact Form", sub.sent[0].FormName)
	assert.Equal(t, "Hello", sub.sent[0].Get("message"))

	require.Len(t, leads.saved, 1)
	assert.Equal(t, domain.LeadDelivered, leads.saved[0].Status)
	assert.NotEqual(t, uuid.Nil, leads.saved[0].ID)
	require.Len(t, notifier.notified, 1)
}

func TestContactFailureIsRecordedNotNotified(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{err: errors.New("503")}
	leads := &fakeLeads{err: errors.New("db down")}
	notifier := &fakeNotifier{}
	forms := testForms(sub, leads, notifier)

	err := forms.Contact(context.Background(), ContactInput{Name: "Alex", Email: "alex@example.com", Message: "Hello"})
	require.Error(t, err)
	require.Len(t, leads.saved, 1)
	assert.Equal(t, domain.LeadFailed, leads.saved[0].Status)
	assert.Empty(t, notifier.notified)
}

func TestNewsletterFlow(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	forms := testForms(sub, nil, nil)
	m := forms.Signup()

	s, err := m.SubmitEmail(m.Start(), "climber@example.com")
	require.NoError(t, err)

	blocked, err := forms.Newsletter(context.Background(), s, "Alex", "", "555-1234")
	assert.ErrorIs(t, err, signup.ErrMissingName)
	assert.Equal(t, signup.CollectingDetails, blocked.Step)
	assert.Empty(t, sub.sent, "a guard failure issues no submission")

	done, err := forms.Newsletter(context.Background(), blocked, "Alex", "Honnold", "555-1234")
	require.NoError(t, err)
	assert.Equal(t, signup.State{Step: signup.Submitted}, done)

	require.Len(t, sub.sent, 1)
	fields := sub.sent[0]
	assert.Equal(t, "Newsletter Signup", fields.FormName)
	assert.Equal(t, "climber@example.com", fields.Get("email"))
	assert.Equal(t, "Alex", fields.Get("first_name"))
	assert.Equal(t, "Honnold", fields.Get("last_name"))
	assert.Equal(t, "+15551234", fields.Get("phone"))
}

func TestNewsletterFailurePreservesFields(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{err: errors.New("500")}
	forms := testForms(sub, nil, nil)
	m := forms.Signup()

	s, _ := m.SubmitEmail(m.Start(), "climber@example.com")
	s, err := forms.Newsletter(context.Background(), s, "Alex", "Honnold", "")
	require.NoError(t, err)
	assert.True(t, s.Failed())
	assert.Equal(t, "climber@example.com", s.Email)
	assert.Equal(t, "Alex", s.FirstName)
	assert.Equal(t, "Honnold", s.LastName)

	sub.err = nil
	s, err = forms.Newsletter(context.Background(), s, s.FirstName, s.LastName, s.Phone)
	require.NoError(t, err)
	assert.Equal(t, signup.Submitted, s.Step)
	assert.Len(t, sub.sent, 2)
}
