// Package fixture produces small, deterministic datasets in the published
// ALSI, AGSI and ENTSOG export layouts. The numbers are chosen so every
// report figure can be checked by hand.
package fixture

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/eu-gas-report/internal/domain"
)

// Day is the gas day the storage fixture describes.
var Day = time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

// LNGRow is one ALSI terminal aggregate.
type LNGRow struct {
	Name                           string
	Inventory, SendOut, DTMI, DTRS float64
}

// StorageRow is one AGSI country aggregate. A row with Status "N" carries no values.
type StorageRow struct {
	Status, Name                                string
	InStorage, Full, WorkingVolume, Consumption float64
}

// PipelineRow is one ENTSOG import route.
type PipelineRow struct {
	Name               string
	Capacity, MeanFlow float64
}

// LNG rows; the EU row is the sum of the countries.
var LNG = []LNGRow{
	{"EU", 3900, 1500, 7490, 6000},
	{"Spain", 1300, 400, 3300, 1900},
	{"Portugal", 150, 80, 390, 250},
	{"France", 800, 350, 1400, 1300},
	{"Greece", 120, 40, 225, 190},
	{"Italy", 450, 200, 500, 700},
	{"Lithuania", 100, 30, 170, 160},
	{"Netherlands", 400, 180, 540, 600},
	{"Croatia", 80, 20, 265, 140},
	{"Belgium", 300, 120, 380, 500},
	{"Poland", 200, 80, 320, 260},
}

// Storage rows, including a no-data row, a country below the size cut-off
// and a non-EU country.
var Storage = []StorageRow{
	{"E", "EU", 576.05, 67.37, 855.1, 3314.2},
	{"E", "Netherlands", 70, 50, 140, 350.2},
	{"E", "Germany", 170, 68, 250, 870.5},
	{"E", "Spain", 28, 80, 35, 340.6},
	{"E", "Italy", 150, 75, 200, 720.1},
	{"E", "Sweden", 0.05, 50, 0.1, 10.3},
	{"N", "Ireland", 0, 0, 0, 0},
	{"E", "Austria", 80, 80, 100, 89.9},
	{"E", "France", 78, 60, 130, 430.4},
	{"E", "United Kingdom", 10, 66.67, 15, 780.0},
}

// Pipelines rows.
var Pipelines = []PipelineRow{
	{"Yamal (Belarus)", 1000, 600},
	{"Algeria (Medgaz)", 320, 250},
	{"Nord Stream 1", 1800, 1600},
	{"TAP (Melendugno)", 300, 240},
	{"Ukraine transit", 1300, 400},
	{"Libya (Greenstream)", 350, 100},
	{"TurkStream (Strandzha 2)", 600, 400},
	{"Algeria (Mazara)", 1100, 600},
}

// LNGRecords returns the LNG export, preamble line first.
func LNGRecords() [][]string {
	out := [][]string{
		{"ALSI aggregated data", "gas day 2022-09-18"},
		domain.LNGColumns,
	}
	for _, r := range LNG {
		out = append(out, []string{r.Name, num(r.Inventory), num(r.SendOut), num(r.DTMI), num(r.DTRS)})
	}
	return out
}

// StorageRecords returns the AGSI export for day. It has no preamble and an
// extra Gas Day Start column that readers ignore.
func StorageRecords(day time.Time) [][]string {
	out := [][]string{{
		domain.ColStatus, domain.ColName, "Gas Day Start",
		domain.ColGasInStorage, domain.ColFull, domain.ColWorkingVolume, domain.ColConsumption,
	}}
	for _, r := range Storage {
		row := []string{r.Status, r.Name, day.Format("2006-01-02"), "", "", "", ""}
		if r.Status != domain.StatusNoData {
			row[3], row[4], row[5], row[6] = num(r.InStorage), num(r.Full), num(r.WorkingVolume), num(r.Consumption)
		}
		out = append(out, row)
	}
	return out
}

// PipelineRecords returns the ENTSOG export, preamble line first.
func PipelineRecords() [][]string {
	out := [][]string{
		{"ENTSOG transparency platform", "firm capacity and mean flow 01/11/2021-31/03/2022"},
		domain.PipelinesColumns,
	}
	for _, r := range Pipelines {
		out = append(out, []string{r.Name, num(r.Capacity), num(r.MeanFlow)})
	}
	return out
}

// Write stores all three datasets as CSV in dir and returns the file paths.
// With storageXLSX the storage snapshot is written as a workbook instead.
func Write(dir string, day time.Time, storageXLSX bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}

	lngPath := filepath.Join(dir, domain.LNGFile)
	if err := writeCSV(lngPath, LNGRecords()); err != nil {
		return nil, err
	}
	pipelinesPath := filepath.Join(dir, domain.PipelinesFile)
	if err := writeCSV(pipelinesPath, PipelineRecords()); err != nil {
		return nil, err
	}

	storagePath := filepath.Join(dir, domain.StorageSnapshotName(day))
	var err error
	if storageXLSX {
		storagePath += ".xlsx"
		err = writeXLSX(storagePath, StorageRecords(day))
	} else {
		storagePath += ".csv"
		err = writeCSV(storagePath, StorageRecords(day))
	}
	if err != nil {
		return nil, err
	}
	return []string{lngPath, storagePath, pipelinesPath}, nil
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

func writeXLSX(path string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, v := range rec {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				row[j] = n
			} else {
				row[j] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+1)
		}
	}
	return errors.Wrapf(f.SaveAs(path), "save %s", path)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
