package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/observability"
)

// CatalogResolver maps an opaque product id to the identifier that should
// be resolved against the dataset. Implementations may fail soft by
// returning the id unchanged.
type CatalogResolver interface {
	ResolveKey(ctx context.Context, productID string) string
}

// Request carries the common report query parameters.
type Request struct {
	Start     string
	End       string
	ProductID string
	Model     string
	Locale    string
}

// Service computes the four reports over the cached snapshot dataset.
type Service struct {
	cache      *dataset.Cache
	catalog    CatalogResolver
	selfBrands *SelfBrandResolver
	metrics    *observability.Metrics
	log        zerolog.Logger
}

// NewService wires the report engine. catalog may be nil, in which case
// product ids are resolved against the dataset directly.
func NewService(cache *dataset.Cache, catalog CatalogResolver, selfBrands *SelfBrandResolver, metrics *observability.Metrics, log zerolog.Logger) *Service {
	return &Service{
		cache:      cache,
		catalog:    catalog,
		selfBrands: selfBrands,
		metrics:    metrics,
		log:        log.With().Str("service", "reports").Logger(),
	}
}

// reportContext is the shared per-request state every report builder
// consumes: the resolved window, model bucket key, and self brand.
type reportContext struct {
	req       Request
	entityKey string
	series    dataset.EntitySeries
	window    *Window
	model     string
	selfBrand string
}

// normalizeModel maps the query's model parameter to a dataset bucket key.
// Unknown values fall back to the overall bucket.
func normalizeModel(param string) string {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "", "all", dataset.ModelOverall:
		return dataset.ModelOverall
	case "gpt", dataset.ModelGPT:
		return dataset.ModelGPT
	case dataset.ModelGemini:
		return dataset.ModelGemini
	case dataset.ModelClaude:
		return dataset.ModelClaude
	default:
		return dataset.ModelOverall
	}
}

// prepare resolves the dataset slice every report starts from. Only a
// dataset load failure is fatal; resolution and window errors surface to
// the caller for fallback handling.
func (s *Service) prepare(ctx context.Context, req Request) (*reportContext, error) {
	ds, err := s.cache.Get()
	if err != nil {
		return nil, err
	}

	identifier := req.ProductID
	if s.catalog != nil {
		identifier = s.catalog.ResolveKey(ctx, req.ProductID)
	}
	key, err := dataset.ResolveKey(ds, identifier, s.log)
	if err != nil {
		return nil, err
	}

	series := ds.Series[key]
	window, err := ResolveWindow(series, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	model := normalizeModel(req.Model)
	selfBrand := s.selfBrands.Resolve(window.Latest().Bucket(model), key)

	return &reportContext{
		req:       req,
		entityKey: key,
		series:    series,
		window:    window,
		model:     model,
		selfBrand: selfBrand,
	}, nil
}

// Overview computes the overview report, degrading to the synthetic payload
// for every failure except an unreachable dataset.
func (s *Service) Overview(ctx context.Context, req Request) (*OverviewResponse, error) {
	var resp *OverviewResponse
	err := s.run(ctx, "overview", req, func(rc *reportContext) error {
		resp = buildOverview(rc)
		return nil
	})
	if err != nil {
		if errors.Is(err, dataset.ErrUnavailable) {
			return nil, err
		}
		s.degrade("overview", req, err)
		return fallbackOverview(req), nil
	}
	return resp, nil
}

// Visibility computes the visibility report with the same degradation
// policy as Overview.
func (s *Service) Visibility(ctx context.Context, req Request) (*VisibilityResponse, error) {
	var resp *VisibilityResponse
	err := s.run(ctx, "visibility", req, func(rc *reportContext) error {
		resp = buildVisibility(rc)
		return nil
	})
	if err != nil {
		if errors.Is(err, dataset.ErrUnavailable) {
			return nil, err
		}
		s.degrade("visibility", req, err)
		return fallbackVisibility(req), nil
	}
	return resp, nil
}

// Sentiment computes the sentiment report with the same degradation policy
// as Overview.
func (s *Service) Sentiment(ctx context.Context, req Request) (*SentimentResponse, error) {
	var resp *SentimentResponse
	err := s.run(ctx, "sentiment", req, func(rc *reportContext) error {
		resp = buildSentiment(rc)
		return nil
	})
	if err != nil {
		if errors.Is(err, dataset.ErrUnavailable) {
			return nil, err
		}
		s.degrade("sentiment", req, err)
		return fallbackSentiment(req), nil
	}
	return resp, nil
}

// Intent computes the intent report with the same degradation policy as
// Overview.
func (s *Service) Intent(ctx context.Context, req Request) (*IntentResponse, error) {
	var resp *IntentResponse
	err := s.run(ctx, "intent", req, func(rc *reportContext) error {
		resp = buildIntent(rc)
		return nil
	})
	if err != nil {
		if errors.Is(err, dataset.ErrUnavailable) {
			return nil, err
		}
		s.degrade("intent", req, err)
		return fallbackIntent(req), nil
	}
	return resp, nil
}

// run prepares the report context and executes the builder with panic
// recovery, so a malformed record can never take down the endpoint.
func (s *Service) run(ctx context.Context, report string, req Request, build func(*reportContext) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("report computation panicked: %v", r)
		}
	}()

	rc, err := s.prepare(ctx, req)
	if err != nil {
		return err
	}
	s.log.Debug().
		Str("report", report).
		Str("entity", rc.entityKey).
		Str("model", rc.model).
		Bool("single_point", rc.window.SinglePoint).
		Int("records", len(rc.window.Records)).
		Msg("computing report")
	return build(rc)
}

// degrade records a fallback activation.
func (s *Service) degrade(report string, req Request, err error) {
	if s.metrics != nil {
		s.metrics.ReportFallbacks.WithLabelValues(report).Inc()
	}
	event := s.log.Warn()
	if errors.Is(err, ErrEmptyWindow) || errors.Is(err, dataset.ErrProductNotFound) {
		event = s.log.Info()
	}
	event.Err(err).
		Str("report", report).
		Str("product_id", req.ProductID).
		Str("start", req.Start).
		Str("end", req.End).
		Msg("serving synthetic fallback response")
}
