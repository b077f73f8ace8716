package app

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/tilegrid/internal/catalog"
	"github.com/specialistvlad/tilegrid/internal/config"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/graph"
	"github.com/specialistvlad/tilegrid/internal/inmemorytopology"
	"github.com/specialistvlad/tilegrid/internal/planfile"
	"github.com/specialistvlad/tilegrid/internal/segments"
	"github.com/specialistvlad/tilegrid/internal/workflow"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Run loads the workflow, plans every stage, and writes the resulting plan.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	model, err := a.loader.Load(ctx, a.config.ConfigPaths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded.", "jobs", len(model.Jobs), "stages", len(model.Stages))

	catalogs, err := a.loadCatalogs(ctx)
	if err != nil {
		return err
	}
	if err := a.validate(ctx, model, catalogs); err != nil {
		return fmt.Errorf("invalid workflow: %w", err)
	}

	segs, err := segments.Load(a.config.SegmentsPath)
	if err != nil {
		return fmt.Errorf("failed to load segments: %w", err)
	}
	logger.Debug("Segments loaded.", "instruments", segs.Instruments())

	g := graph.New(inmemorytopology.New())
	planner := &workflow.Planner{
		Registry: a.registry,
		Model:    model,
		Segments: segs,
		Catalogs: catalogs,
		Sink:     g,
		Workers:  a.config.WorkerCount,
	}
	results, err := planner.Plan(ctx)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	total := 0
	for _, r := range results {
		total += len(r.Nodes)
	}
	logger.Info("Planning finished.", "stages", len(results), "nodes", total)

	if err := g.Link(ctx); err != nil {
		return fmt.Errorf("failed to link plan: %w", err)
	}
	if err := g.Validate(ctx); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	plan, err := planfile.Build(ctx, g)
	if err != nil {
		return err
	}

	if a.config.OutPath == "-" {
		err = planfile.Write(a.planW, plan)
	} else {
		err = planfile.WriteFile(a.config.OutPath, plan)
	}
	if err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	logger.Info("Plan written.", "nodes", len(plan.Nodes), "out", a.config.OutPath)
	return nil
}

// loadCatalogs reads every configured catalog file in parallel.
func (a *App) loadCatalogs(ctx context.Context) (map[string]catalog.Catalog, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]catalog.Catalog, len(a.config.Catalogs))
	)
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(a.config.WorkerCount)
	for name, path := range a.config.Catalogs {
		eg.Go(func() error {
			m, err := catalog.Load(path)
			if err != nil {
				return fmt.Errorf("catalog %q: %w", name, err)
			}
			ctxlog.FromContext(ctx).Debug("Catalog loaded.", "catalog", name, "artifacts", m.Len())
			mu.Lock()
			out[name] = m
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *App) validate(ctx context.Context, m *config.Model, catalogs map[string]catalog.Catalog) error {
	names := slices.Sorted(maps.Keys(catalogs))
	return multierr.Combine(
		m.Validate(names),
		a.registry.ValidateModel(ctx, m),
	)
}
