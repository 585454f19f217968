package interactome

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/regulon/internal/deliver"
	"github.com/matsen/regulon/internal/network"
)

// Artifact kinds fetched per module.
const (
	KindNetwork     = "network"
	KindLabel       = "label"
	KindEnrichment  = "enrichment"
	KindInteractive = "interactive"
	KindHubs        = "hubs"
	KindReport      = "report"
)

type endpoint struct {
	kind     string
	path     string
	isJSON   bool
	hubParam string // query key for the hub count, if the endpoint takes one
}

// endpoints are fetched in this order; the network comes first because a
// module without one is not a module.
var endpoints = []endpoint{
	{kind: KindNetwork, path: "/module", isJSON: true},
	{kind: KindLabel, path: "/module/label", isJSON: true, hubParam: "top_hubs"},
	{kind: KindEnrichment, path: "/module/enrich", isJSON: true},
	{kind: KindInteractive, path: "/viz/module"},
	{kind: KindHubs, path: "/viz/module/hubs.png", hubParam: "top_n"},
	{kind: KindReport, path: "/module/report", hubParam: "top_n"},
}

func fileFor(layout deliver.Layout, kind string) string {
	switch kind {
	case KindNetwork:
		return layout.Network
	case KindLabel:
		return layout.Label
	case KindEnrichment:
		return layout.Enrichment
	case KindInteractive:
		return layout.Interactive
	case KindHubs:
		return layout.Hubs
	case KindReport:
		return layout.Report
	}
	return ""
}

// Skipped records an optional artifact that could not be fetched.
type Skipped struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// ModuleExport is the outcome of exporting one community.
type ModuleExport struct {
	Module  string    `json:"module"`
	CID     int       `json:"cid"`
	Dir     string    `json:"dir"`
	Size    int       `json:"size"`
	Files   []string  `json:"files"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Exporter writes service artifacts into a run directory.
type Exporter struct {
	Client *Client
	Layout deliver.Layout
}

// NewExporter creates an exporter with the default file layout.
func NewExporter(c *Client) *Exporter {
	return &Exporter{Client: c, Layout: deliver.DefaultLayout()}
}

// ExportModule fetches every artifact of community cid into
// <runDir>/C<cid>/. The network is required; any other artifact that
// fails is logged, recorded in Skipped, and left absent.
func (e *Exporter) ExportModule(ctx context.Context, runDir string, cid int, p Params) (ModuleExport, error) {
	layout := e.Layout.Merge()
	name := deliver.ModuleName(cid)
	out := ModuleExport{Module: name, CID: cid, Dir: filepath.Join(runDir, name)}

	base := p.Query(cid)
	for i, ep := range endpoints {
		q := cloneValues(base)
		if ep.hubParam != "" && p.TopHubs > 0 {
			q.Set(ep.hubParam, strconv.Itoa(p.TopHubs))
		}

		body, err := e.fetch(ctx, ep.path, q)
		if err == nil && ep.isJSON && !json.Valid(body) {
			err = fmt.Errorf("%w: %s is not JSON", ErrInvalidResponse, ep.path)
		}
		if err == nil && ep.kind == KindNetwork {
			out.Size, err = moduleSize(body)
		}

		if err != nil {
			if i == 0 {
				return ModuleExport{}, fmt.Errorf("fetching %s network: %w", name, err)
			}
			if ctx.Err() != nil {
				return ModuleExport{}, ctx.Err()
			}
			log := e.Client.logger.Warn
			if IsNotFound(err) {
				// Older service builds lack some endpoints.
				log = e.Client.logger.Debug
			}
			log("skipping artifact",
				zap.String("module", name),
				zap.String("kind", ep.kind),
				zap.Error(err),
			)
			out.Skipped = append(out.Skipped, Skipped{Kind: ep.kind, Error: err.Error()})
			// A file left by an earlier export belongs to other parameters.
			stale := filepath.Join(out.Dir, fileFor(layout, ep.kind))
			if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
				return ModuleExport{}, fmt.Errorf("removing stale %s: %w", stale, err)
			}
			continue
		}

		if i == 0 {
			if err := os.MkdirAll(out.Dir, 0755); err != nil {
				return ModuleExport{}, fmt.Errorf("creating module directory: %w", err)
			}
		}
		path := filepath.Join(out.Dir, fileFor(layout, ep.kind))
		if err := deliver.WriteFileAtomic(path, body); err != nil {
			return ModuleExport{}, err
		}
		out.Files = append(out.Files, path)
	}
	return out, nil
}

// RetryAfter is the pause before the single retry of a rate-limited request.
var RetryAfter = 2 * time.Second

// fetch is Client.get with one retry when the service asks us to slow down.
func (e *Exporter) fetch(ctx context.Context, path string, q url.Values) ([]byte, error) {
	body, err := e.Client.get(ctx, path, q)
	if err == nil || !IsRateLimited(err) {
		return body, err
	}
	e.Client.logger.Info("rate limited, retrying", zap.String("endpoint", path), zap.Duration("after", RetryAfter))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(RetryAfter):
	}
	return e.Client.get(ctx, path, q)
}

// ExportRun exports communities 0..topK-1. The service numbers
// communities by descending size, so an out-of-range index ends the run
// early without error.
func (e *Exporter) ExportRun(ctx context.Context, runDir string, topK int, p Params) ([]ModuleExport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	var done []ModuleExport
	for cid := 0; cid < topK; cid++ {
		m, err := e.ExportModule(ctx, runDir, cid, p)
		if err != nil {
			if IsOutOfRange(err) {
				e.Client.logger.Info("no more modules", zap.Int("cid", cid))
				break
			}
			return done, err
		}
		done = append(done, m)
	}
	return done, nil
}

// moduleSize validates the network body and returns its module size.
func moduleSize(body []byte) (int, error) {
	var g network.Graph
	if err := json.Unmarshal(body, &g); err != nil {
		return 0, fmt.Errorf("%w: decoding network: %v", ErrInvalidResponse, err)
	}
	return g.Size(), nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
