package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/logging"
	"ClimbCoach/internal/metrics"
	"ClimbCoach/internal/ports"
	"ClimbCoach/internal/signup"
	"ClimbCoach/internal/validation"
)

// ContactInput is the contact form as posted by the visitor.
type ContactInput struct {
	Name    string `form:"name" validate:"required,max=200"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Message string `form:"message" validate:"required,max=5000"`
}

// FormsDeps wires the driven adapters used by form handling. Leads and Notifier are optional.
type FormsDeps struct {
	Submitter ports.FormSubmitter
	Leads     ports.LeadRepository
	Notifier  ports.LeadNotifier
	Validator *validation.Validator
	Logger    *slog.Logger
}

// Forms validates and delivers visitor forms, then records the attempt.
type Forms struct {
	submitter      ports.FormSubmitter
	leads          ports.LeadRepository
	notifier       ports.LeadNotifier
	validator      *validation.Validator
	machine        *signup.Machine
	contactName    string
	newsletterName string
	logger         *slog.Logger
	now            func() time.Time
}

// NewForms constructs the forms service.
func NewForms(deps FormsDeps, cfg config.FormsConfig) *Forms {
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}
	contactName := cfg.ContactFormName
	if contactName == "" {
		contactName = "Coach Contact Form"
	}
	newsletterName := cfg.NewsletterFormName
	if newsletterName == "" {
		newsletterName = "Newsletter Signup"
	}
	return &Forms{
		submitter:      deps.Submitter,
		leads:          deps.Leads,
		notifier:       deps.Notifier,
		validator:      v,
		machine:        signup.New(v, cfg.CountryCode),
		contactName:    contactName,
		newsletterName: newsletterName,
		logger:         log,
		now:            time.Now,
	}
}

// Signup exposes the newsletter state machine.
func (f *Forms) Signup() *signup.Machine {
	return f.machine
}

// Contact validates and submits the contact form. A *validation.Error means nothing was sent.
func (f *Forms) Contact(ctx context.Context, in ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := f.validator.Struct(in); err != nil {
		return err
	}

	fields := ports.FormFields{
		FormName: f.contactName,
		Values: []ports.FormValue{
			{Name: "name", Value: in.Name},
			{Name: "email", Value: in.Email},
			{Name: "message", Value: in.Message},
		},
	}
	return f.submit(ctx, fields, domain.Lead{FormName: f.contactName, Email: in.Email, Name: in.Name})
}

// Newsletter runs the details step: guards, submission and resolution. Guard and
// transition failures come back as errors; a failed delivery is reported by the
// returned state (Step SubmitError) with the visitor's fields intact.
func (f *Forms) Newsletter(ctx context.Context, s signup.State, firstName, lastName, phone string) (signup.State, error) {
	s, sub, err := f.machine.PrepareSubmission(s, firstName, lastName, phone)
	if err != nil {
		return s, err
	}

	fields := ports.FormFields{
		FormName: f.newsletterName,
		Values: []ports.FormValue{
			{Name: "email", Value: sub.Email},
			{Name: "first_name", Value: sub.FirstName},
			{Name: "last_name", Value: sub.LastName},
			{Name: "phone", Value: sub.Phone},
		},
	}
	lead := domain.Lead{
		FormName: f.newsletterName,
		Email:    sub.Email,
		Name:     strings.TrimSpace(sub.FirstName + " " + sub.LastName),
		Phone:    sub.Phone,
	}
	submitErr := f.submit(ctx, fields, lead)
	return f.machine.Resolve(s, submitErr)
}

func (f *Forms) submit(ctx context.Context, fields ports.FormFields, lead domain.Lead) error {
	err := f.submitter.Submit(ctx, fields)
	metrics.RecordFormSubmission(fields.FormName, err == nil)

	lead.ID = uuid.New()
	lead.CreatedAt = f.now().UTC()
	lead.Status = domain.LeadDelivered
	if err != nil {
		lead.Status = domain.LeadFailed
		f.logger.Warn("form submission failed", "form", fields.FormName, "error", err)
	}

	if f.leads != nil {
		if saveErr := f.leads.SaveLead(ctx, lead); saveErr != nil {
			f.logger.Error("save lead failed", "form", fields.FormName, "error", saveErr)
		}
	}
	if err == nil && f.notifier != nil {
		if notifyErr := f.notifier.NotifyLead(ctx, lead); notifyErr != nil {
			f.logger.Warn("lead notification failed", "form", fields.FormName, "error", notifyErr)
		}
	}
	return err
}
