package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alnah/dictaphone/internal/session"
	"github.com/alnah/dictaphone/internal/theme"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	msgBadBody     = "Invalid request body."
	msgRateLimited = "Too many requests. Please wait a moment."
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse is the body returned by POST /api/analyze.
type AnalyzeResponse struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Error    string `json:"error,omitempty"`
}

type pageData struct {
	Skin       string
	Provider   string
	Input      string
	Loading    bool
	Error      string
	Response   string
	Transcript []session.Exchange
	Themes     []theme.Name
}

func (s *Server) newPage(skin theme.Name, st session.State) pageData {
	return pageData{
		Skin:       skin.String(),
		Provider:   s.analyzer.Name(),
		Input:      st.Input,
		Loading:    st.Busy(),
		Error:      st.Message,
		Response:   st.Response,
		Transcript: st.Transcript,
		Themes:     theme.All(),
	}
}

// skinFor resolves the ?theme= override against the server default.
func (s *Server) skinFor(c echo.Context) (theme.Name, error) {
	raw := c.QueryParam("theme")
	if raw == "" {
		return s.skin, nil
	}
	n, err := theme.ParseName(raw)
	if err != nil {
		return theme.Name{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return n, nil
}

func (s *Server) handlePage(c echo.Context) error {
	skin, err := s.skinFor(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "page", s.newPage(skin, session.New(s.analyzer.Name())))
}

// handleForm runs one cycle for a plain form post so the page works
// without JavaScript.
func (s *Server) handleForm(c echo.Context) error {
	skin, err := s.skinFor(c)
	if err != nil {
		return err
	}

	st, upstreamErr := s.run(c, surfaceForm, c.FormValue("text"))
	if upstreamErr != nil {
		s.logger.Error("analyze failed", "provider", s.analyzer.Name(), "err", upstreamErr)
	}
	return c.Render(http.StatusOK, "page", s.newPage(skin, st))
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, AnalyzeResponse{Status: statusError, Error: msgBadBody})
	}

	st, upstreamErr := s.run(c, surfaceAPI, req.Text)
	switch st.Status {
	case session.Success:
		return c.JSON(http.StatusOK, AnalyzeResponse{Status: statusSuccess, Response: st.Response, Prompt: req.Text})
	case session.Error:
		if upstreamErr == nil {
			return c.JSON(http.StatusBadRequest, AnalyzeResponse{Status: statusError, Error: st.Message})
		}
		s.logger.Error("analyze failed", "provider", s.analyzer.Name(), "err", upstreamErr)
		return c.JSON(http.StatusBadGateway, AnalyzeResponse{Status: statusError, Error: st.Message})
	}
	return c.JSON(http.StatusInternalServerError, AnalyzeResponse{Status: statusError, Error: st.Message})
}

// run performs one session cycle for a request and records it.
func (s *Server) run(c echo.Context, surface, text string) (session.State, error) {
	start := time.Now()
	st, err := session.Run(c.Request().Context(), s.analyzer, session.New(s.analyzer.Name()), text)
	// Blank input ends in Error without an upstream error.
	called := st.Status == session.Success || err != nil
	s.metrics.observe(surface, st, called, time.Since(start))
	return st, err
}

// denyRateLimited answers a throttled POST in the shape its route expects.
func denyRateLimited(c echo.Context, _ string, _ error) error {
	if c.Path() == "/api/analyze" {
		return c.JSON(http.StatusTooManyRequests, AnalyzeResponse{Status: statusError, Error: msgRateLimited})
	}
	return echo.NewHTTPError(http.StatusTooManyRequests, msgRateLimited)
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
