// SPDX-License-Identifier: MIT

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/katalvlaran/mrio/dataset"
	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/report"
)

// DecomposeRequest is the POST /v1/decompose body.
type DecomposeRequest struct {
	Stressor string `json:"stressor" binding:"required"`
	Region   string `json:"region" binding:"required"`
	Sector   string `json:"sector" binding:"required"`
	Policy   string `json:"policy"`
	Top      int    `json:"top" binding:"gte=0"`
}

// DecomposeResponse carries the raw result, its breakdown and optional top contributors.
type DecomposeResponse struct {
	Result    *decomp.Result        `json:"result"`
	Breakdown report.Breakdown      `json:"breakdown"`
	Top       []decomp.Contribution `json:"top,omitempty"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status      string     `json:"status"`
	Loaded      bool       `json:"loaded"`
	Origin      string     `json:"origin,omitempty"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
}

type errorBody struct {
	Error        string         `json:"error"`
	Kind         string         `json:"kind"`
	RequestID    string         `json:"request_id,omitempty"`
	Missing      []producer.Key `json:"missing,omitempty"`
	MissingCount int            `json:"missing_count,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if snap := s.data.Current(); snap != nil {
		at := snap.LoadedAt
		resp.Loaded = true
		resp.Origin = string(snap.Origin)
		resp.Fingerprint = snap.Fingerprint
		resp.LoadedAt = &at
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) catalog(c *gin.Context) {
	snap, err := s.data.Get(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap.Catalog)
}

func (s *Server) reload(c *gin.Context) {
	s.data.Invalidate()
	c.JSON(http.StatusAccepted, gin.H{"status": "invalidated"})
}

func (s *Server) decompose(c *gin.Context) {
	start := time.Now()
	var req DecomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "bad_request", err.Error(), nil)
		recordDecompose(c.Request.Context(), "", "bad_request", time.Since(start))
		return
	}
	policy := s.policy
	if req.Policy != "" {
		p, err := decomp.ParsePolicy(req.Policy)
		if err != nil {
			s.fail(c, err)
			recordDecompose(c.Request.Context(), policyInvalid, dataset.ErrorKind(err), time.Since(start))
			return
		}
		policy = p
	}

	snap, err := s.data.Get(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		recordDecompose(c.Request.Context(), string(policy), "unavailable", time.Since(start))
		return
	}
	res, err := snap.Decompose(c.Request.Context(), decomp.Query{
		Stressor: req.Stressor,
		Target:   producer.K(req.Region, req.Sector),
		Policy:   policy,
	})
	if err != nil {
		s.fail(c, err)
		recordDecompose(c.Request.Context(), string(policy), dataset.ErrorKind(err), time.Since(start))
		return
	}

	resp := DecomposeResponse{Result: res, Breakdown: report.NewBreakdown(res)}
	if req.Top > 0 {
		n := req.Top
		if s.cfg.MaxTop > 0 && n > s.cfg.MaxTop {
			n = s.cfg.MaxTop
		}
		resp.Top = res.Top(n, decomp.ScopeAll)
	}
	c.JSON(http.StatusOK, resp)
	recordDecompose(c.Request.Context(), string(res.Policy), "ok", time.Since(start))
}

// fail maps a domain error to its status and writes the JSON body.
func (s *Server) fail(c *gin.Context, err error) {
	kind := dataset.ErrorKind(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, decomp.ErrUnknownStressor), errors.Is(err, decomp.ErrUnknownTarget):
		status = http.StatusNotFound
	case errors.Is(err, decomp.ErrInvalidPolicy):
		status = http.StatusBadRequest
	case errors.Is(err, decomp.ErrAlignmentGap):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.String("request_id", c.GetString(ctxRequestID)))
	}

	var gap *decomp.AlignmentGapError
	if errors.As(err, &gap) {
		s.respondError(c, status, kind, err.Error(), gap)
		return
	}
	s.respondError(c, status, kind, err.Error(), nil)
}

func (s *Server) respondError(c *gin.Context, status int, kind, msg string, gap *decomp.AlignmentGapError) {
	body := errorBody{Error: msg, Kind: kind, RequestID: c.GetString(ctxRequestID)}
	if gap != nil {
		body.Missing = gap.Missing
		body.MissingCount = gap.Count
	}
	c.AbortWithStatusJSON(status, body)
}
