// Package http provides the analysis endpoints
package http

import (
	stdhttp "net/http"
	"strconv"

	"chromalyzer/internal/modkit/httpkit"
	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/services/analysis/domain"
)

// UploadField is the multipart part carrying the trace file
const UploadField = "file"

// Config tunes the transport
type Config struct {
	// MaxUploadBytes bounds a whole multipart request
	MaxUploadBytes int64
	// PersistByDefault applies when a request does not say
	PersistByDefault bool
}

// Register mounts analysis endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, cfg Config) {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 64 << 20
	}
	h := &handlers{svc: s, cfg: cfg}
	httpkit.PostMultipart[domain.UploadForm](r, "/", UploadField, cfg.MaxUploadBytes, h.upload)
	httpkit.PostJSON[domain.TraceInput](r, "/trace", h.trace)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{key}", h.get)
}

type handlers struct {
	svc domain.ServicePort
	cfg Config
}

func (h *handlers) persist(p *bool) bool {
	if p == nil {
		return h.cfg.PersistByDefault
	}
	return *p
}

// respond reports a newly stored analysis as created
func respond(res domain.Result) (any, error) {
	if res.Stored {
		return httpkit.Created(res), nil
	}
	return res, nil
}

// swagger:route POST /analyses Analyses analysesUpload
// @Summary Analyze an uploaded chromatogram file
// @Description Accepts .cdf/.nc (netCDF ANDI), .csv/.tsv/.txt or .json traces.
// @Tags Analyses
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Trace file"
// @Param metadata formData string false "Free text forwarded to diagnosis"
// @Param height_percentile formData number false "Height threshold percentile"
// @Param prominence_percentile formData number false "Prominence threshold percentile"
// @Param min_distance formData integer false "Minimum apex spacing in samples"
// @Param rel_height formData number false "Relative width height"
// @Param persist formData boolean false "Store the record"
// @Param diagnose formData boolean false "Ask the diagnosis service"
// @Success 200 {object} domain.Result "analyzed"
// @Success 201 {object} domain.Result "analyzed and stored"
// @Failure 422 {object} httpkit.Envelope "invalid trace"
// @Router /analyses [post]
func (h *handlers) upload(r *stdhttp.Request, f httpkit.Upload, in domain.UploadForm) (any, error) {
	res, err := h.svc.AnalyzeFile(r.Context(), f.Name, f.Data, domain.Request{
		Label:     f.Name,
		Metadata:  in.Metadata,
		Overrides: in.Overrides(),
		Persist:   h.persist(in.Persist),
		Diagnose:  in.Diagnose,
	})
	if err != nil {
		return nil, err
	}
	return respond(res)
}

// swagger:route POST /analyses/trace Analyses analysesTrace
// @Summary Analyze a trace given as time and intensity arrays
// @Tags Analyses
// @Accept json
// @Produce json
// @Param payload body domain.TraceInput true "Trace"
// @Success 200 {object} domain.Result "analyzed"
// @Success 201 {object} domain.Result "analyzed and stored"
// @Failure 422 {object} httpkit.Envelope "invalid trace"
// @Router /analyses/trace [post]
func (h *handlers) trace(r *stdhttp.Request, in domain.TraceInput) (any, error) {
	res, err := h.svc.Analyze(r.Context(), domain.Request{
		Label:     in.Label,
		Time:      in.Time,
		Intensity: in.Intensity,
		Metadata:  in.Metadata,
		Overrides: in.Options,
		Persist:   h.persist(in.Persist),
		Diagnose:  in.Diagnose,
	})
	if err != nil {
		return nil, err
	}
	return respond(res)
}

// swagger:route GET /analyses Analyses analysesList
// @Summary List stored analyses, newest first
// @Tags Analyses
// @Produce json
// @Param limit query int false "Page size (1..500)"
// @Success 200 {array} domain.Entry "ok"
// @Router /analyses [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			return nil, perr.WithField(perr.InvalidArgf("limit must be an integer in 1..500"), "limit")
		}
		limit = n
	}
	entries, err := h.svc.List(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	size := limit
	if size == 0 {
		size = len(entries)
	}
	return httpkit.List(entries, len(entries), 1, size), nil
}

// swagger:route GET /analyses/{key} Analyses analysesGet
// @Summary Fetch a stored analysis record
// @Tags Analyses
// @Produce json
// @Param key path string true "Record key" example(run-01.json)
// @Success 200 {object} domain.Record "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /analyses/{key} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "key"))
}
