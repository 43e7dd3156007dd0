package odre

import "energydash/internal/energy/dataset"

// DefaultExportURL is the public CSV export of the daily raw gas and electricity consumption dataset.
const DefaultExportURL = "https://odre.opendatasoft.com/api/explore/v2.1/catalog/datasets/consommation-quotidienne-brute/exports/csv"

// Delimiter used by the ODRE CSV exports.
const Delimiter = ';'

// Source column names
const (
	HeaderDate           = "date"
	HeaderDateTime       = "date_heure"
	HeaderTimeOfDay      = "heure"
	HeaderGasGRTgaz      = "consommation_brute_gaz_grtgaz"
	HeaderGasTerega      = "consommation_brute_gaz_terega"
	HeaderGasTotal       = "consommation_brute_gaz_totale"
	HeaderElectricityRTE = "consommation_brute_electricite_rte"
)

// RequiredHeaders lists the columns every export must carry.
var RequiredHeaders = []string{
	HeaderDate,
	HeaderDateTime,
	HeaderTimeOfDay,
	HeaderGasGRTgaz,
	HeaderGasTerega,
	HeaderGasTotal,
	HeaderElectricityRTE,
}

// measurementHeaders maps source headers to dataset columns.
var measurementHeaders = map[dataset.Column]string{
	dataset.ColumnGasGRTgaz:      HeaderGasGRTgaz,
	dataset.ColumnGasTerega:      HeaderGasTerega,
	dataset.ColumnGasTotal:       HeaderGasTotal,
	dataset.ColumnElectricityRTE: HeaderElectricityRTE,
}
