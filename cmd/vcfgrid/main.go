// Command vcfgrid regenerates the correction fixtures under data/mock. It runs
// every request through the same domain and correction packages the service
// uses, so the expected records always match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/vcfgrid \
//	  -requests data/mock/correction_requests.json \
//	  -out data/mock/correction_results.json \
//	  -grid-out data/mock/vcf_grid.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/domain"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

// fixtureTime is the ProcessedAt stamped on every generated record.
var fixtureTime = time.Date(2026, time.January, 1, 6, 0, 0, 0, time.UTC)

// Grid axes: every segment edge plus interior points, and temperatures from
// arctic storage to heated residual tanks.
var (
	gridDensities = []float64{
		610.5, 650, 700, 740, 770, 770.5, 780, 787.5, 800,
		838.5, 850, 900, 980, 1075, 1075.1, 1100, 1164,
	}
	gridTemps = []float64{-30, -10, 0, 10, 15, 20, 25, 30, 40, 56, 80, 100, 120}
)

type gridPoint struct {
	Rho15 float64   `json:"rho15"`
	TempC float64   `json:"tempC"`
	Table vcf.Table `json:"table"`
	Label string    `json:"label"`
	VCF   float64   `json:"VCF"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	requestsPath := flag.String("requests", "", "input path of the correction request fixture")
	out := flag.String("out", "", "output path for the expected correction records")
	gridOut := flag.String("grid-out", "", "output path for the VCF grid fixture")
	flag.Parse()

	if *requestsPath == "" || *out == "" || *gridOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -requests, -out, -grid-out")
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	records, err := correctAll(*requestsPath)
	if err != nil {
		return err
	}
	log.Printf("corrected %d requests", len(records))

	if err := writeJSON(*out, records); err != nil {
		return fmt.Errorf("writing correction fixture: %w", err)
	}
	log.Printf("wrote correction fixture: %s", *out)

	grid, err := buildGrid()
	if err != nil {
		return err
	}
	if err := writeJSON(*gridOut, grid); err != nil {
		return fmt.Errorf("writing grid fixture: %w", err)
	}
	log.Printf("wrote grid fixture: %s (%d points)", *gridOut, len(grid))

	printStats(records)
	return nil
}

func correctAll(path string) ([]domain.CorrectionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}
	var payloads []json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("parse requests: %w", err)
	}

	dispatcher := correction.NewDispatcher(nil, fuel.New(nil), nil)
	records := make([]domain.CorrectionRecord, 0, len(payloads))
	for i, payload := range payloads {
		req, err := domain.ParseCorrectionRequest(domain.RawEvent{Value: payload, Offset: int64(i)})
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		res, err := dispatcher.AutoCorrect(req.Request)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", req.ID, err)
		}
		records = append(records, domain.NewCorrectionRecord(req, res))
	}
	return records, nil
}

func buildGrid() ([]gridPoint, error) {
	points := make([]gridPoint, 0, len(gridDensities)*len(gridTemps))
	for _, rho := range gridDensities {
		for _, t := range gridTemps {
			res, err := vcf.Compute(rho, t)
			if err != nil {
				return nil, fmt.Errorf("grid point rho15=%g tempC=%g: %w", rho, t, err)
			}
			points = append(points, gridPoint{
				Rho15: rho,
				TempC: t,
				Table: res.Table,
				Label: res.Label,
				VCF:   res.VCF,
			})
		}
	}
	return points, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec // fixture files are not secret
}

func printStats(records []domain.CorrectionRecord) {
	byTable := map[string]int{}
	byMode := map[string]int{}
	for i := range records {
		byTable[string(records[i].Result.Table)]++
		byMode[string(records[i].Result.Mode)]++
	}

	fmt.Println("\nRecords by table:")
	for _, k := range sortedKeys(byTable) {
		fmt.Printf("  %-4s %d\n", k, byTable[k])
	}
	fmt.Println("Records by mode:")
	for _, k := range sortedKeys(byMode) {
		fmt.Printf("  %-13s %d\n", k, byMode[k])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
