// Package signup models the two-step newsletter form as a value-typed state machine.
//
// The flow is CollectingEmail -> CollectingDetails -> Submitted, with SubmitError as
// a recoverable detour that keeps every entered field. Transitions are pure: the
// caller performs the network submission between PrepareSubmission and Resolve.
package signup

import (
	"errors"
	"strings"
)

// Step enumerates the form states.
type Step int

const (
	CollectingEmail Step = iota
	CollectingDetails
	Submitted
	SubmitError
)

var stepNames = map[Step]string{
	CollectingEmail:   "email",
	CollectingDetails: "details",
	Submitted:         "submitted",
	SubmitError:       "error",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStep is the inverse of Step.String.
func ParseStep(name string) (Step, bool) {
	for step, n := range stepNames {
		if n == name {
			return step, true
		}
	}
	return CollectingEmail, false
}

var (
	ErrInvalidEmail      = errors.New("please enter a valid email address")
	ErrMissingName       = errors.New("first and last name are required")
	ErrInvalidTransition = errors.New("invalid signup transition")
)

// State is the whole form at one point in time.
type State struct {
	Step      Step
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// Failed reports whether the last submission attempt failed.
func (s State) Failed() bool {
	return s.Step == SubmitError
}

// collectingDetails covers CollectingDetails and its error variant.
func (s State) collectingDetails() bool {
	return s.Step == CollectingDetails || s.Step == SubmitError
}

// Submission is the payload handed to the form endpoint.
type Submission struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// EmailChecker decides whether an address is plausible.
type EmailChecker interface {
	Email(s string) bool
}

// Machine holds the transition rules; it carries no per-user data.
type Machine struct {
	emails      EmailChecker
	countryCode string
}

// New builds a Machine; countryCode is the digits prefixed to phones without one.
func New(emails EmailChecker, countryCode string) *Machine {
	return &Machine{emails: emails, countryCode: strings.TrimPrefix(strings.TrimSpace(countryCode), "+")}
}

// Start returns the initial state.
func (m *Machine) Start() State {
	return State{Step: CollectingEmail}
}

// Restore rebuilds a state from round-tripped form fields, falling back to the
// initial step when the data does not satisfy the step's guards.
func (m *Machine) Restore(step Step, email, firstName, lastName, phone string) State {
	s := State{
		Step:      step,
		Email:     strings.TrimSpace(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Phone:     strings.TrimSpace(phone),
	}
	switch step {
	case CollectingDetails, SubmitError:
		if !m.emails.Email(s.Email) {
			return State{Step: CollectingEmail, Email: s.Email}
		}
		return s
	case Submitted:
		return State{Step: Submitted}
	default:
		return State{Step: CollectingEmail, Email: s.Email}
	}
}

// SubmitEmail moves CollectingEmail to CollectingDetails. No network is involved.
func (m *Machine) SubmitEmail(s State, email string) (State, error) {
	if s.Step != CollectingEmail {
		return s, ErrInvalidTransition
	}
	email = strings.TrimSpace(email)
	s.Email = email
	if !m.emails.Email(email) {
		return s, ErrInvalidEmail
	}
	s.Step = CollectingDetails
	return s, nil
}

// PrepareSubmission records the detail fields and, when the guards pass, returns the
// payload to submit. The state keeps the entered fields either way.
func (m *Machine) PrepareSubmission(s State, firstName, lastName, phone string) (State, Submission, error) {
	if !s.collectingDetails() {
		return s, Submission{}, ErrInvalidTransition
	}

	s.FirstName = strings.TrimSpace(firstName)
	s.LastName = strings.TrimSpace(lastName)
	s.Phone = strings.TrimSpace(phone)

	if s.FirstName == "" || s.LastName == "" {
		return s, Submission{}, ErrMissingName
	}

	return s, Submission{
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Phone:     NormalizePhone(s.Phone, m.countryCode),
	}, nil
}

// Resolve applies the submission outcome: success clears every field, failure keeps
// them and flags the error.
func (m *Machine) Resolve(s State, submitErr error) (State, error) {
	if !s.collectingDetails() {
		return s, ErrInvalidTransition
	}
	if submitErr != nil {
		s.Step = SubmitError
		return s, nil
	}
	return State{Step: Submitted}, nil
}

// Back returns to the email step, keeping the email.
func (m *Machine) Back(s State) (State, error) {
	if !s.collectingDetails() {
		return s, ErrInvalidTransition
	}
	return State{Step: CollectingEmail, Email: s.Email}, nil
}

// NormalizePhone keeps digits only and prefixes +countryCode unless the input already
// carried one (leading '+'). Input without digits normalizes to "".
func NormalizePhone(raw, countryCode string) string {
	raw = strings.TrimSpace(raw)
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	if strings.HasPrefix(raw, "+") {
		return "+" + digits.String()
	}
	return "+" + strings.TrimPrefix(countryCode, "+") + digits.String()
}
