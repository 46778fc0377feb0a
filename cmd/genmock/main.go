// Command genmock writes the fixture datasets (ALSI LNG, AGSI storage and
// ENTSOG pipelines) into a data directory so the report tool can run without
// downloading the real exports.
//
// Usage:
//
//	go run ./cmd/genmock -out data -date 2024-01-20
//	go run ./cmd/genmock -out data -xlsx
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/couchcryptid/eu-gas-report/internal/config"
	"github.com/couchcryptid/eu-gas-report/internal/fixture"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "directory to write the datasets into")
	date := flag.String("date", fixture.Day.Format(config.StorageDateLayout), "gas day of the storage snapshot")
	xlsx := flag.Bool("xlsx", false, "write the storage snapshot as an Excel workbook")
	flag.Parse()

	day, err := time.Parse(config.StorageDateLayout, *date)
	if err != nil {
		flag.Usage()
		return fmt.Errorf("invalid -date %q: %w", *date, err)
	}

	paths, err := fixture.Write(*out, day, *xlsx)
	if err != nil {
		return fmt.Errorf("write fixtures: %w", err)
	}
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}
	log.Printf("lng: %d rows, storage: %d rows, pipelines: %d rows",
		len(fixture.LNG), len(fixture.Storage), len(fixture.Pipelines))
	return nil
}
