package domain

import (
	"fmt"
	"time"
)

// Dataset identifiers.
const (
	DatasetLNG       = "lng"
	DatasetStorage   = "storage"
	DatasetPipelines = "pipelines"
)

// AggregateName is the Name of the EU-wide row in ALSI and AGSI exports.
const AggregateName = "EU"

// Shared columns.
const (
	ColName = "Name"
)

// ALSI LNG columns.
const (
	ColLNGInventory = "LNG Inventory (1000 m3)"
	ColSendOut      = "Send-out (GWh/d)"
	ColDTMI         = "DTMI (1000 m3)"
	ColDTRS         = "DTRS (GWh/d)"
)

// AGSI storage columns.
const (
	ColStatus        = "Status"
	ColGasInStorage  = "Gas in storage (TWh)"
	ColWorkingVolume = "Working (gas) volume (TWh)"
	ColFull          = "Full (%)"
	ColConsumption   = "Consumption (TWh)"
)

// ENTSOG pipeline columns.
const (
	ColCapacity       = "Capacity (GWh/d)"
	ColMeanFlowWinter = "Mean flow last winter (GWh/d)"
)

// StatusNoData marks AGSI rows without reported data.
const StatusNoData = "N"

// File names as published by the source platforms.
const (
	LNGFile       = "LNG_EU.csv"
	PipelinesFile = "pipelines_EU.csv"
)

// Columns required by each dataset, in export order.
var (
	LNGColumns       = []string{ColName, ColLNGInventory, ColSendOut, ColDTMI, ColDTRS}
	StorageColumns   = []string{ColStatus, ColName, ColGasInStorage, ColWorkingVolume, ColFull, ColConsumption}
	PipelinesColumns = []string{ColName, ColCapacity, ColMeanFlowWinter}
)

// StorageSnapshotName returns the AGSI export base name for a gas day, without extension.
func StorageSnapshotName(day time.Time) string {
	return fmt.Sprintf("AGSI_CountryAggregatedDataset_gasDayStart_%s", day.Format("2006-01-02"))
}

// StorageCountries are the EU member states with significant storage that the
// storage report charts.
var StorageCountries = []string{
	"Austria",
	"Belgium",
	"Bulgaria",
	"Croatia",
	"Czech Republic",
	"Denmark",
	"France",
	"Germany",
	"Hungary",
	"Ireland",
	"Italy",
	"Latvia",
	"Netherlands",
	"Poland",
	"Portugal",
	"Romania",
	"Slovakia",
	"Spain",
	"Sweden",
}
