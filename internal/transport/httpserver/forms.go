package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"ClimbCoach/internal/signup"
	"ClimbCoach/internal/usecase"
	"ClimbCoach/internal/validation"
)

const submitFailedMessage = "Something went wrong sending your message. Please try again."

type contactView struct {
	Title  string
	Input  usecase.ContactInput
	Fields map[string]string
	Error  string
	Sent   bool
}

type newsletterView struct {
	Title string
	State signup.State
	Error string
}

func (h *handlers) contactForm(c echo.Context) error {
	return c.Render(http.StatusOK, "contact", contactView{Title: "Contact"})
}

func (h *handlers) contactSubmit(c echo.Context) error {
	in := usecase.ContactInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Message: c.FormValue("message"),
	}

	err := h.forms.Contact(c.Request().Context(), in)
	if err == nil {
		return c.Render(http.StatusOK, "contact", contactView{Title: "Contact", Sent: true})
	}

	view := contactView{Title: "Contact", Input: in}
	var verr *validation.Error
	if errors.As(err, &verr) {
		view.Fields = verr.Fields
		view.Error = "Please fix the highlighted fields."
		return c.Render(http.StatusUnprocessableEntity, "contact", view)
	}
	view.Error = submitFailedMessage
	return c.Render(http.StatusBadGateway, "contact", view)
}

func (h *handlers) newsletterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "newsletter", newsletterView{
		Title: "Newsletter",
		State: h.forms.Signup().Start(),
	})
}

func (h *handlers) newsletterSubmit(c echo.Context) error {
	machine := h.forms.Signup()
	step, _ := signup.ParseStep(c.FormValue("step"))
	state := machine.Restore(step,
		c.FormValue("email"),
		c.FormValue("first_name"),
		c.FormValue("last_name"),
		c.FormValue("phone"),
	)

	var err error
	switch strings.TrimSpace(c.FormValue("action")) {
	case "back":
		state, err = machine.Back(state)
	case "details":
		state, err = h.forms.Newsletter(c.Request().Context(), state,
			c.FormValue("first_name"), c.FormValue("last_name"), c.FormValue("phone"))
	default:
		state, err = machine.SubmitEmail(state, c.FormValue("email"))
	}

	view := newsletterView{Title: "Newsletter", State: state}
	status := http.StatusOK
	switch {
	case errors.Is(err, signup.ErrInvalidEmail), errors.Is(err, signup.ErrMissingName):
		view.Error = capitalize(err.Error()) + "."
		status = http.StatusUnprocessableEntity
	case err != nil:
		h.logger.Debug("newsletter transition rejected", "step", step, "error", err)
	case state.Failed():
		view.Error = "Something went wrong. Please try again."
		status = http.StatusBadGateway
	}
	return c.Render(status, "newsletter", view)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
