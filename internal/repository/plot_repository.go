package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gridworks/plotregistry/api/internal/database"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/gridworks/plotregistry/api/internal/query"
	"github.com/jackc/pgx/v5"
)

// plotColumns lists every all_data column in scan order, ID first.
// plotFieldPtrs must stay aligned with this list.
var plotColumns = []string{
	"ID",
	"NAME_OF_NODE",
	"SECTOR_NO_",
	"BLOCK_ROAD_NAME",
	"PLOT_NO_AFTER_SURVEY",
	"PLOT_NO_",
	"SUB_PLOT_NO_",
	"UID",
	"DATE_OF_ALLOTMENT",
	"NAME_OF_ORIGINAL_ALLOTTEE",
	"PLOT_AREA_SQM_",
	"BUILTUP_AREA_SQM_",
	"USE_OF_PLOT_ACCORDING_TO_FILE",
	"TOTAL_PRICE_RS_",
	"RATE_SQM_",
	"LEASE_TERM_YEARS_",
	"FSI",
	"COMENCEMENT_CERTIFICATE",
	"OCCUPANCY_CERTIFICATE",
	"NAME_OF_2ND_OWNER",
	"_2ND_OWNER_TRANSFER_DATE",
	"NAME_OF_3RD_OWNER",
	"_3RD_OWNER_TRANSFER_DATE",
	"NAME_OF_4TH_OWNER",
	"_4TH_OWNER_TRANSFER_DATE",
	"NAME_OF_5TH_OWNER",
	"_5TH_OWNER_TRANSFER_DATE",
	"NAME_OF_6TH_OWNER",
	"_6TH_OWNER_TRANSFER_DATE",
	"NAME_OF_7TH_OWNER",
	"_7TH_OWNER_TRANSFER_DATE",
	"NAME_OF_8TH_OWNER",
	"_8TH_OWNER_TRANSFER_DATE",
	"NAME_OF_9TH_OWNER",
	"_9TH_OWNER_TRANSFER_DATE",
	"NAME_OF_10TH_OWNER",
	"_10TH_OWNER_TRANSFER_DATE",
	"NAME_OF_11TH_OWNER",
	"_11TH_OWNER_TRANSFER_DATE",
	"INVESTIGATOR_REMARKS",
	"INVESTIGATOR_NAME",
	"FILE_LOCATION",
	"FILE_NAME",
	"TOTAL_AREA_SQM",
	"USE_OF_PLOT",
	"SUB_USE_OF_PLOT",
	"PLOT_STATUS",
	"SURVEY_REMARKS",
	"PHOTO_FOLDER",
	"PLANNING_USE",
	"PLOT_AREA_FOR_INVOICE",
	"PLOT_USE_FOR_INVOICE",
	"Tentative_Plot_Count",
	"Minimum_Plot_Count",
	"Additional_Plot_Count",
	"Percentage_Match",
	"Department_Remark",
	"MAP_AREA",
	"SUBMISSION",
	"IMAGES_PRESENT",
	"PDFS_PRESENT",
}

// updatableColumns is the closed allow-list for the update endpoint:
// every all_data column except the immutable primary key.
var updatableColumns = func() map[string]bool {
	m := make(map[string]bool, len(plotColumns)-1)
	for _, col := range plotColumns[1:] {
		m[col] = true
	}
	return m
}()

// IsUpdatableColumn reports whether name is an all_data column the update
// endpoint may set. The primary key and unknown names are rejected.
func IsUpdatableColumn(name string) bool {
	return updatableColumns[name]
}

// plotSelectList returns the quoted select list for all plot columns.
func plotSelectList() string {
	quoted := make([]string, len(plotColumns))
	for i, col := range plotColumns {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	return strings.Join(quoted, ", ")
}

// plotFieldPtrs returns scan destinations aligned with plotColumns.
func plotFieldPtrs(p *models.PlotRecord) []any {
	return []any{
		&p.ID,
		&p.NameOfNode,
		&p.SectorNo,
		&p.BlockRoadName,
		&p.PlotNoAfterSurvey,
		&p.PlotNo,
		&p.SubPlotNo,
		&p.UID,
		&p.DateOfAllotment,
		&p.NameOfOriginalAllottee,
		&p.PlotAreaSqm,
		&p.BuiltupAreaSqm,
		&p.UseOfPlotAccordingToFile,
		&p.TotalPriceRs,
		&p.RateSqm,
		&p.LeaseTermYears,
		&p.FSI,
		&p.CommencementCertificate,
		&p.OccupancyCertificate,
		&p.Owner2Name,
		&p.Owner2TransferDate,
		&p.Owner3Name,
		&p.Owner3TransferDate,
		&p.Owner4Name,
		&p.Owner4TransferDate,
		&p.Owner5Name,
		&p.Owner5TransferDate,
		&p.Owner6Name,
		&p.Owner6TransferDate,
		&p.Owner7Name,
		&p.Owner7TransferDate,
		&p.Owner8Name,
		&p.Owner8TransferDate,
		&p.Owner9Name,
		&p.Owner9TransferDate,
		&p.Owner10Name,
		&p.Owner10TransferDate,
		&p.Owner11Name,
		&p.Owner11TransferDate,
		&p.InvestigatorRemarks,
		&p.InvestigatorName,
		&p.FileLocation,
		&p.FileName,
		&p.TotalAreaSqm,
		&p.UseOfPlot,
		&p.SubUseOfPlot,
		&p.PlotStatus,
		&p.SurveyRemarks,
		&p.PhotoFolder,
		&p.PlanningUse,
		&p.PlotAreaForInvoice,
		&p.PlotUseForInvoice,
		&p.TentativePlotCount,
		&p.MinimumPlotCount,
		&p.AdditionalPlotCount,
		&p.PercentageMatch,
		&p.DepartmentRemark,
		&p.MapArea,
		&p.Submission,
		&p.ImagesPresent,
		&p.PdfsPresent,
	}
}

// SummarySource is one raw tuple feeding the summary aggregation: the
// group category plus the two text-typed numeric fields as stored.
type SummarySource struct {
	Category        *string
	Area            *string
	AdditionalCount *string
}

// PlotRepository defines data access for all_data rows.
type PlotRepository interface {
	// DistinctNodes returns the sorted distinct node names.
	DistinctNodes(ctx context.Context) ([]string, error)

	// DistinctSectors returns the sorted distinct sector numbers,
	// optionally scoped to a node. Empty filter values add no predicate.
	DistinctSectors(ctx context.Context, node string) ([]string, error)

	// DistinctBlocks returns the sorted distinct block/road names under
	// the optional node/sector scope.
	DistinctBlocks(ctx context.Context, node, sector string) ([]string, error)

	// DistinctPlots returns the sorted distinct plot numbers under the
	// optional node/sector/block scope.
	DistinctPlots(ctx context.Context, node, sector, block string) ([]string, error)

	// Search returns the search projection for rows matching the node and
	// any provided sector/block/plot filters.
	Search(ctx context.Context, node, sector, block, plot string) ([]models.PlotSearchRow, error)

	// FindByID returns the full row, or nil, nil when no row has that ID.
	FindByID(ctx context.Context, id int) (*models.PlotRecord, error)

	// Update sets the given columns on one row and returns the updated
	// row, or nil, nil when no row has that ID. Callers must have
	// validated the column names against IsUpdatableColumn.
	Update(ctx context.Context, id int, fields map[string]*string) (*models.PlotRecord, error)

	// FetchSummarySource returns (category, area, additional-count)
	// tuples for the given group column under optional node/sector
	// filters. groupColumn must be one of the summary allow-list columns.
	FetchSummarySource(ctx context.Context, groupColumn, node, sector string) ([]SummarySource, error)
}

// plotRepository is the concrete implementation of PlotRepository.
type plotRepository struct {
	db *database.Database
}

// NewPlotRepository creates a new instance of PlotRepository.
func NewPlotRepository(db *database.Database) PlotRepository {
	return &plotRepository{
		db: db,
	}
}

func (r *plotRepository) DistinctNodes(ctx context.Context) ([]string, error) {
	b := query.Distinct("all_data", query.ColNode).OrderBy(query.ColNode)
	return r.queryStrings(ctx, b)
}

func (r *plotRepository) DistinctSectors(ctx context.Context, node string) ([]string, error) {
	b := query.Distinct("all_data", query.ColSector).
		Where(query.ColNode, node).
		OrderBy(query.ColSector)
	return r.queryStrings(ctx, b)
}

func (r *plotRepository) DistinctBlocks(ctx context.Context, node, sector string) ([]string, error) {
	b := query.Distinct("all_data", query.ColBlock).
		Where(query.ColNode, node).
		Where(query.ColSector, sector).
		OrderBy(query.ColBlock)
	return r.queryStrings(ctx, b)
}

func (r *plotRepository) DistinctPlots(ctx context.Context, node, sector, block string) ([]string, error) {
	b := query.Distinct("all_data", query.ColPlot).
		Where(query.ColNode, node).
		Where(query.ColSector, sector).
		Where(query.ColBlock, block).
		OrderBy(query.ColPlot)
	return r.queryStrings(ctx, b)
}

// queryStrings runs a single-column query and collects non-null values.
func (r *plotRepository) queryStrings(ctx context.Context, b *query.Builder) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distinct values: %w", err)
	}
	return values, nil
}

func (r *plotRepository) Search(ctx context.Context, node, sector, block, plot string) ([]models.PlotSearchRow, error) {
	b := query.New(`SELECT "ID", "NAME_OF_NODE", "SECTOR_NO_", "BLOCK_ROAD_NAME", "PLOT_NO_", "PLOT_NO_AFTER_SURVEY" FROM all_data WHERE 1=1`).
		Where(query.ColNode, node).
		Where(query.ColSector, sector).
		Where(query.ColBlock, block).
		Where(query.ColPlot, plot).
		Append(` ORDER BY "ID"`)

	rows, err := r.db.Pool.Query(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to search plots: %w", err)
	}
	defer rows.Close()

	results := []models.PlotSearchRow{}
	for rows.Next() {
		var row models.PlotSearchRow
		err := rows.Scan(
			&row.ID,
			&row.NameOfNode,
			&row.SectorNo,
			&row.BlockRoadName,
			&row.PlotNo,
			&row.PlotNoAfterSurvey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search rows: %w", err)
	}
	return results, nil
}

func (r *plotRepository) FindByID(ctx context.Context, id int) (*models.PlotRecord, error) {
	sql := fmt.Sprintf(`SELECT %s FROM all_data WHERE "ID" = $1`, plotSelectList())

	var record models.PlotRecord
	err := r.db.Pool.QueryRow(ctx, sql, id).Scan(plotFieldPtrs(&record)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query plot record %d: %w", id, err)
	}
	return &record, nil
}

func (r *plotRepository) Update(ctx context.Context, id int, fields map[string]*string) (*models.PlotRecord, error) {
	setClauses := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)

	// Iterate plotColumns so the SET clause order is deterministic.
	for _, col := range plotColumns[1:] {
		value, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%q = $%d", col, len(args)))
	}
	if len(setClauses) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	args = append(args, id)
	sql := fmt.Sprintf(
		`UPDATE all_data SET %s WHERE "ID" = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), plotSelectList(),
	)

	var record models.PlotRecord
	err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(plotFieldPtrs(&record)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update plot record %d: %w", id, err)
	}
	return &record, nil
}

// summaryColumns is the closed allow-list of group-by columns. The column
// name is spliced into the select list, so nothing outside this set may
// ever reach this query.
var summaryColumns = map[string]bool{
	query.ColPlotUseForInvoice: true,
	query.ColDepartmentRemark:  true,
}

func (r *plotRepository) FetchSummarySource(ctx context.Context, groupColumn, node, sector string) ([]SummarySource, error) {
	if !summaryColumns[groupColumn] {
		return nil, fmt.Errorf("unsupported summary column %q", groupColumn)
	}

	b := query.New(fmt.Sprintf(
		`SELECT %q, "PLOT_AREA_FOR_INVOICE", "Additional_Plot_Count" FROM all_data WHERE 1=1`,
		groupColumn,
	)).
		Where(query.ColNode, node).
		Where(query.ColSector, sector)

	rows, err := r.db.Pool.Query(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary source: %w", err)
	}
	defer rows.Close()

	results := []SummarySource{}
	for rows.Next() {
		var src SummarySource
		if err := rows.Scan(&src.Category, &src.Area, &src.AdditionalCount); err != nil {
			return nil, fmt.Errorf("failed to scan summary source row: %w", err)
		}
		results = append(results, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary source rows: %w", err)
	}
	return results, nil
}
