package models

// PlotRecord represents one row of the all_data table: a denormalized
// land-plot record keyed by ID with node/sector/block/plot location fields
// and the administrative columns carried over from the source register.
// All nullable columns use pointers to distinguish NULL from empty string,
// and json tags preserve the exact column names the existing frontend
// consumes.
type PlotRecord struct {
	ID int `json:"ID"`

	NameOfNode        *string `json:"NAME_OF_NODE"`
	SectorNo          *string `json:"SECTOR_NO_"`
	BlockRoadName     *string `json:"BLOCK_ROAD_NAME"`
	PlotNoAfterSurvey *string `json:"PLOT_NO_AFTER_SURVEY"`
	PlotNo            *string `json:"PLOT_NO_"`
	SubPlotNo         *string `json:"SUB_PLOT_NO_"`

	UID                      *string `json:"UID"`
	DateOfAllotment          *string `json:"DATE_OF_ALLOTMENT"`
	NameOfOriginalAllottee   *string `json:"NAME_OF_ORIGINAL_ALLOTTEE"`
	PlotAreaSqm              *string `json:"PLOT_AREA_SQM_"`
	BuiltupAreaSqm           *string `json:"BUILTUP_AREA_SQM_"`
	UseOfPlotAccordingToFile *string `json:"USE_OF_PLOT_ACCORDING_TO_FILE"`
	TotalPriceRs             *string `json:"TOTAL_PRICE_RS_"`
	RateSqm                  *string `json:"RATE_SQM_"`
	LeaseTermYears           *string `json:"LEASE_TERM_YEARS_"`
	FSI                      *string `json:"FSI"`
	CommencementCertificate  *string `json:"COMENCEMENT_CERTIFICATE"`
	OccupancyCertificate     *string `json:"OCCUPANCY_CERTIFICATE"`

	Owner2Name          *string `json:"NAME_OF_2ND_OWNER"`
	Owner2TransferDate  *string `json:"_2ND_OWNER_TRANSFER_DATE"`
	Owner3Name          *string `json:"NAME_OF_3RD_OWNER"`
	Owner3TransferDate  *string `json:"_3RD_OWNER_TRANSFER_DATE"`
	Owner4Name          *string `json:"NAME_OF_4TH_OWNER"`
	Owner4TransferDate  *string `json:"_4TH_OWNER_TRANSFER_DATE"`
	Owner5Name          *string `json:"NAME_OF_5TH_OWNER"`
	Owner5TransferDate  *string `json:"_5TH_OWNER_TRANSFER_DATE"`
	Owner6Name          *string `json:"NAME_OF_6TH_OWNER"`
	Owner6TransferDate  *string `json:"_6TH_OWNER_TRANSFER_DATE"`
	Owner7Name          *string `json:"NAME_OF_7TH_OWNER"`
	Owner7TransferDate  *string `json:"_7TH_OWNER_TRANSFER_DATE"`
	Owner8Name          *string `json:"NAME_OF_8TH_OWNER"`
	Owner8TransferDate  *string `json:"_8TH_OWNER_TRANSFER_DATE"`
	Owner9Name          *string `json:"NAME_OF_9TH_OWNER"`
	Owner9TransferDate  *string `json:"_9TH_OWNER_TRANSFER_DATE"`
	Owner10Name         *string `json:"NAME_OF_10TH_OWNER"`
	Owner10TransferDate *string `json:"_10TH_OWNER_TRANSFER_DATE"`
	Owner11Name         *string `json:"NAME_OF_11TH_OWNER"`
	Owner11TransferDate *string `json:"_11TH_OWNER_TRANSFER_DATE"`

	InvestigatorRemarks *string `json:"INVESTIGATOR_REMARKS"`
	InvestigatorName    *string `json:"INVESTIGATOR_NAME"`
	FileLocation        *string `json:"FILE_LOCATION"`
	FileName            *string `json:"FILE_NAME"`

	TotalAreaSqm  *string `json:"TOTAL_AREA_SQM"`
	UseOfPlot     *string `json:"USE_OF_PLOT"`
	SubUseOfPlot  *string `json:"SUB_USE_OF_PLOT"`
	PlotStatus    *string `json:"PLOT_STATUS"`
	SurveyRemarks *string `json:"SURVEY_REMARKS"`
	PhotoFolder   *string `json:"PHOTO_FOLDER"`
	PlanningUse   *string `json:"PLANNING_USE"`

	PlotAreaForInvoice  *string `json:"PLOT_AREA_FOR_INVOICE"`
	PlotUseForInvoice   *string `json:"PLOT_USE_FOR_INVOICE"`
	TentativePlotCount  *string `json:"Tentative_Plot_Count"`
	MinimumPlotCount    *string `json:"Minimum_Plot_Count"`
	AdditionalPlotCount *string `json:"Additional_Plot_Count"`
	PercentageMatch     *string `json:"Percentage_Match"`
	DepartmentRemark    *string `json:"Department_Remark"`
	MapArea             *string `json:"MAP_AREA"`
	Submission          *string `json:"SUBMISSION"`
	ImagesPresent       *string `json:"IMAGES_PRESENT"`
	PdfsPresent         *string `json:"PDFS_PRESENT"`
}

// PlotSearchRow is the narrow projection returned by the search endpoint.
type PlotSearchRow struct {
	ID                int     `json:"ID"`
	NameOfNode        *string `json:"NAME_OF_NODE"`
	SectorNo          *string `json:"SECTOR_NO_"`
	BlockRoadName     *string `json:"BLOCK_ROAD_NAME"`
	PlotNo            *string `json:"PLOT_NO_"`
	PlotNoAfterSurvey *string `json:"PLOT_NO_AFTER_SURVEY"`
}
