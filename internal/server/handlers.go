package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/goliatone/go-eventform/pkg/apidoc"
	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/orchestrator"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/render"
	"github.com/goliatone/go-eventform/pkg/validation"
)

// SubmitResponse is the JSON API reply.
type SubmitResponse struct {
	Submitted bool                       `json:"submitted"`
	Summary   []registration.SummaryItem `json:"summary,omitempty"`
	Errors    validation.ErrorMap        `json:"errors,omitempty"`
}

// ErrorResponse is returned for requests the API cannot read.
type ErrorResponse struct {
	Error string `json:"error"`
	render.ErrorMapping
}

// session finds the caller's session by cookie, then by the hidden session
// field, creating one when neither resolves. The cookie is refreshed on every
// call.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, error) {
	var session *Session
	if cookie, err := r.Cookie(CookieName); err == nil {
		session, _ = s.sessions.Get(cookie.Value)
	}
	if session == nil {
		session, _ = s.sessions.Get(r.FormValue(SessionField))
	}
	if session == nil {
		created, err := s.sessions.Create()
		if err != nil {
			return nil, err
		}
		session = created
		s.logger.Debug().Str("session", session.ID).Msg("session created")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f := session.Lock()
	defer session.Unlock()

	s.renderPage(w, r, session, f, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	session, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f := session.Lock()
	defer session.Unlock()

	for _, change := range form.ChangesFromForm(r.PostForm, f.Model().Controls()) {
		f.HandleChange(change)
	}

	prevented := false
	errs := f.HandleSubmit(validation.PreventDefaultFunc(func() { prevented = true }))

	status := http.StatusOK
	if !errs.Empty() {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Debug().
		Str("session", session.ID).
		Bool("default_prevented", prevented).
		Int("errors", len(errs)).
		Str("state", string(f.State())).
		Msg("form submitted")

	s.renderPage(w, r, session, f, status)
}

// handleChange applies the posted fields without validating and redirects
// back to the page. The field named by ChangedField is applied last.
func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	_, cookieErr := r.Cookie(CookieName)
	session, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f := session.Lock()
	changed := r.PostForm.Get(ChangedField)
	var last *form.Change
	for _, change := range form.ChangesFromForm(r.PostForm, f.Model().Controls()) {
		if change.Name == changed {
			last = &change
			continue
		}
		f.HandleChange(change)
	}
	if last != nil {
		f.HandleChange(*last)
	}
	session.Unlock()

	location := "/"
	if cookieErr != nil {
		location += "?" + url.Values{SessionField: {session.ID}}.Encode()
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "payload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
		return
	}

	changes, err := s.api.DecodeRequest(body)
	if err != nil {
		var payloadErr *apidoc.PayloadError
		if !errors.As(err, &payloadErr) {
			s.fail(w, r, err)
			return
		}
		fm, _ := s.orch.Model()
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:        "invalid payload",
			ErrorMapping: render.MapErrorPayload(fm, payloadErr.Issues),
		})
		return
	}

	f, err := s.orch.NewForm()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if errs := f.Submit(changes...); !errs.Empty() {
		writeJSON(w, http.StatusUnprocessableEntity, SubmitResponse{Errors: errs})
		return
	}

	view, err := f.View()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info().Int("fields", len(view.Summary)).Msg("registration accepted")
	writeJSON(w, http.StatusOK, SubmitResponse{Submitted: true, Summary: view.Summary})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := s.api.MarshalJSON()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, session *Session, f *registration.Form, status int) {
	options := render.RenderOptions{
		Hidden: render.WithHidden(nil, SessionField, session.ID),
	}
	if s.liveChanges {
		options.ChangeEndpoint = changePath
	}

	out, contentType, err := s.orch.Generate(r.Context(), orchestrator.Request{
		Form:          f,
		RenderOptions: options,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
