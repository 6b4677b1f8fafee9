package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridworks/plotregistry/api/internal/logger"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/gridworks/plotregistry/api/internal/repository"
)

// Service-level errors
var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrUnknownField     = errors.New("unknown field")
)

// PlotService defines the lookup and update operations over plot records.
type PlotService interface {
	// ListNodes returns the sorted distinct node names.
	ListNodes(ctx context.Context) ([]string, error)

	// ListSectors returns the sorted distinct sectors, node-scoped when
	// node is non-empty.
	ListSectors(ctx context.Context, node string) ([]string, error)

	// ListBlocks returns the sorted distinct block/road names under the
	// provided scope.
	ListBlocks(ctx context.Context, node, sector string) ([]string, error)

	// ListPlots returns the sorted distinct plot numbers under the
	// provided scope.
	ListPlots(ctx context.Context, node, sector, block string) ([]string, error)

	// Search returns the search projection for the given filters. Empty
	// filters add no predicate, in particular an absent node still
	// executes as an unfiltered search.
	Search(ctx context.Context, node, sector, block, plot string) ([]models.PlotSearchRow, error)

	// UpdateRecord sets the given columns on one record and returns the
	// updated row. Returns ErrNoFieldsToUpdate for an empty field map,
	// ErrUnknownField for a column outside the allow-list, and
	// ErrRecordNotFound when the id does not exist.
	UpdateRecord(ctx context.Context, id int, fields map[string]*string) (*models.PlotRecord, error)
}

// plotService is the concrete implementation of PlotService.
type plotService struct {
	repo repository.PlotRepository
	log  *logger.Logger
}

// NewPlotService creates a new instance of PlotService.
func NewPlotService(repo repository.PlotRepository, log *logger.Logger) PlotService {
	return &plotService{
		repo: repo,
		log:  log,
	}
}

func (s *plotService) ListNodes(ctx context.Context) ([]string, error) {
	nodes, err := s.repo.DistinctNodes(ctx)
	if err != nil {
		s.log.Error("Failed to list nodes", err, nil)
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return nodes, nil
}

func (s *plotService) ListSectors(ctx context.Context, node string) ([]string, error) {
	sectors, err := s.repo.DistinctSectors(ctx, node)
	if err != nil {
		s.log.Error("Failed to list sectors", err, map[string]interface{}{
			"node": node,
		})
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	return sectors, nil
}

func (s *plotService) ListBlocks(ctx context.Context, node, sector string) ([]string, error) {
	blocks, err := s.repo.DistinctBlocks(ctx, node, sector)
	if err != nil {
		s.log.Error("Failed to list blocks", err, map[string]interface{}{
			"node":   node,
			"sector": sector,
		})
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	return blocks, nil
}

func (s *plotService) ListPlots(ctx context.Context, node, sector, block string) ([]string, error) {
	plots, err := s.repo.DistinctPlots(ctx, node, sector, block)
	if err != nil {
		s.log.Error("Failed to list plots", err, map[string]interface{}{
			"node":   node,
			"sector": sector,
			"block":  block,
		})
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	return plots, nil
}

func (s *plotService) Search(ctx context.Context, node, sector, block, plot string) ([]models.PlotSearchRow, error) {
	s.log.Info("Searching plot records", map[string]interface{}{
		"node":   node,
		"sector": sector,
		"block":  block,
		"plot":   plot,
	})

	rows, err := s.repo.Search(ctx, node, sector, block, plot)
	if err != nil {
		s.log.Error("Failed to search plot records", err, map[string]interface{}{
			"node": node,
		})
		return nil, fmt.Errorf("failed to search plot records: %w", err)
	}

	s.log.Info("Plot search completed", map[string]interface{}{
		"node":  node,
		"count": len(rows),
	})
	return rows, nil
}

func (s *plotService) UpdateRecord(ctx context.Context, id int, fields map[string]*string) (*models.PlotRecord, error) {
	// The primary key is immutable; drop it rather than failing payloads
	// that echo the full record back.
	delete(fields, "ID")

	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	for name := range fields {
		if !repository.IsUpdatableColumn(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}

	record, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		s.log.Error("Failed to update plot record", err, map[string]interface{}{
			"id":     id,
			"fields": len(fields),
		})
		return nil, fmt.Errorf("failed to update plot record: %w", err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	s.log.Info("Plot record updated", map[string]interface{}{
		"id":     id,
		"fields": len(fields),
	})
	return record, nil
}
