// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the stitcher over HTTP.
package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/polyfix/spatial"
	"github.com/jcodagnone/polyfix/stitch"
	"github.com/jcodagnone/polyfix/store"
)

// DefaultAddr is where Run listens when no address is given.
const DefaultAddr = "localhost:8080"

type Server struct {
	repo store.ChainRepository // optional
}

// NewServer creates a server. repo may be nil, in which case the summary
// endpoint reports it is unavailable.
func NewServer(repo store.ChainRepository) *Server {
	return &Server{repo: repo}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.healthz)
	r.POST("/api/stitch", s.stitch)
	r.GET("/api/summary", s.summary)

	return r
}

func (s *Server) Run(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	log.Printf("listening on %s", addr)

	return s.Router().Run(addr)
}

func (s *Server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type StitchRequest struct {
	Nodes []spatial.Node `json:"nodes"`
}

type StitchResponse struct {
	Completed [][]spatial.Node `json:"completed"`
	Residual  [][]spatial.Node `json:"residual"`
	Joins     int              `json:"joins"`
	Junctions []spatial.Key    `json:"junctions"`
}

func (s *Server) stitch(ctx *gin.Context) {
	var req StitchRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	res, err := stitch.Feature(req.Nodes)
	if errors.Is(err, stitch.ErrEmptyFeature) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if len(res.Junctions) > 0 {
		log.Printf("⚠️ stitch request has %d junction(s), result depends on input order", len(res.Junctions))
	}

	ctx.JSON(http.StatusOK, newStitchResponse(res))
}

func newStitchResponse(res stitch.Result) StitchResponse {
	ret := StitchResponse{
		Completed: make([][]spatial.Node, 0, len(res.Completed)),
		Residual:  make([][]spatial.Node, 0, len(res.Residual)),
		Joins:     res.Joins,
		Junctions: res.Junctions,
	}

	if ret.Junctions == nil {
		ret.Junctions = []spatial.Key{}
	}

	for _, c := range res.Completed {
		ret.Completed = append(ret.Completed, c)
	}

	for _, c := range res.Residual {
		ret.Residual = append(ret.Residual, c)
	}

	return ret
}

func (s *Server) summary(ctx *gin.Context) {
	if s.repo == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})

		return
	}

	summary, err := s.repo.Summary()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if summary == nil {
		summary = []*store.FileSummary{}
	}

	ctx.JSON(http.StatusOK, summary)
}
