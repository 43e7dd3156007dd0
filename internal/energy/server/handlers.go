package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"energydash/internal/energy/dataset"
	"energydash/internal/energy/views"
	"energydash/pkg/odre"
)

type optionsResponse struct {
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
	Records   int       `json:"records"`
	Years     []int     `json:"years"`
	Months    []int     `json:"months"`
	Columns   []string  `json:"columns"`
	Kinds     []string  `json:"kinds"`
}

func (s *Server) handleOptions(ctx *fasthttp.RequestCtx) {
	ds, err := s.loader.Load(ctx, s.url)
	if err != nil {
		s.loadFailed(ctx, err)
		return
	}

	resp := optionsResponse{
		Source:    ds.Source(),
		FetchedAt: ds.FetchedAt(),
		Records:   ds.Len(),
		Years:     ds.Years(),
		Months:    []int{},
		Columns:   make([]string, len(dataset.Columns)),
		Kinds:     make([]string, len(views.Kinds)),
	}
	if resp.Years == nil {
		resp.Years = []int{}
	}
	for _, m := range ds.Months() {
		resp.Months = append(resp.Months, int(m))
	}
	for i, c := range dataset.Columns {
		resp.Columns[i] = string(c)
	}
	for i, k := range views.Kinds {
		resp.Kinds[i] = string(k)
	}
	jsonResponse(ctx, resp)
}

func (s *Server) handleView(ctx *fasthttp.RequestCtx) {
	kind, err := views.ParseKind(fmt.Sprint(ctx.UserValue("kind")))
	if err != nil {
		errResponse(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}

	f, err := parseFilter(ctx.QueryArgs())
	if err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	ds, err := s.loader.Load(ctx, s.url)
	if err != nil {
		s.loadFailed(ctx, err)
		return
	}

	v, err := views.Build(ds, kind, f)
	if err != nil {
		errResponse(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}
	jsonResponse(ctx, v)
}

// parseFilter reads year, month and columns from the query. Absent values select everything.
func parseFilter(args *fasthttp.Args) (views.Filter, error) {
	var f views.Filter
	if y := string(args.Peek("year")); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			return f, fmt.Errorf("invalid year %q", y)
		}
		f.Year = n
	}
	if m := string(args.Peek("month")); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			return f, fmt.Errorf("invalid month %q", m)
		}
		f.Month = time.Month(n)
	}
	columns, err := views.ParseColumns(string(args.Peek("columns")))
	if err != nil {
		return f, err
	}
	f.Columns = columns
	return f, nil
}

// loadFailed maps a load error to a status code: 502 when the export could not be
// retrieved, 500 when it could not be parsed or anything else went wrong.
func (s *Server) loadFailed(ctx *fasthttp.RequestCtx, err error) {
	var rerr *odre.RetrievalError
	var perr *odre.ParseError
	switch {
	case errors.As(err, &rerr):
		s.logger.Warn("dataset retrieval failed", zap.String("url", s.url), zap.Error(err))
		errResponse(ctx, fasthttp.StatusBadGateway, "dataset unavailable: "+err.Error())
	case errors.As(err, &perr):
		s.logger.Error("dataset parse failed", zap.String("url", s.url), zap.Error(err))
		errResponse(ctx, fasthttp.StatusInternalServerError, "dataset malformed: "+err.Error())
	default:
		s.logger.Error("dataset load failed", zap.String("url", s.url), zap.Error(err))
		errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}
