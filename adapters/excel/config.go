package excel

// Sheet names, in workbook order
const (
	SheetRaw          = "Raw data"
	SheetImputed      = "Imputed"
	SheetNumeric      = "Numeric summary"
	SheetCategorical  = "Categorical summary"
	SheetCorrelation  = "Correlation"
	SheetDistribution = "Distribution"
	SheetStructure    = "Structure"
)

// SheetOrder lists every sheet an export produces
var SheetOrder = []string{
	SheetRaw,
	SheetImputed,
	SheetNumeric,
	SheetCategorical,
	SheetCorrelation,
	SheetDistribution,
	SheetStructure,
}

// ExportConfig holds options for workbook export
type ExportConfig struct {
	IncludeRaw  bool `json:"include_raw"`  // Write the uploaded table before imputation
	FreezeTitle bool `json:"freeze_title"` // Keep the header row visible while scrolling
}

// DefaultExportConfig returns sensible defaults for workbook export
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		IncludeRaw:  true,
		FreezeTitle: true,
	}
}
