package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

const testCatalog = `
airports:
  - {code: BUD, name: Budapest, country: Hungary, latitude: 47.43, longitude: 19.26}
  - {code: LTN, name: LONDON LUTON, country: UNITED KINGDOM, latitude: 51.87, longitude: -0.37}
  - {code: STN, name: London Stansted, country: United Kingdom, latitude: 51.88, longitude: 0.23}
  - {code: MAD, name: Madrid, country: Spain, latitude: 40.49, longitude: -3.56}
routes:
  - origin: BUD
    destinations:
      - {code: LTN, flightDates: ["2025-03-10"]}
      - {code: MAD}
  - origin: LTN
    destinations:
      - {code: MAD}
  - origin: MAD
    destinations:
      - {code: BUD}
groups:
  LON: [LTN, STN]
`

// workspace is a temporary catalog, fixture directory and config file.
type workspace struct {
	dir      string
	catalog  string
	fixtures string
	config   string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()

	dir := t.TempDir()
	ws := &workspace{
		dir:      dir,
		catalog:  filepath.Join(dir, "routes.yaml"),
		fixtures: filepath.Join(dir, "legs"),
		config:   filepath.Join(dir, "config.yaml"),
	}
	if err := os.MkdirAll(ws.fixtures, 0750); err != nil {
		t.Fatalf("failed to create fixtures: %v", err)
	}
	writeFile(t, ws.catalog, testCatalog)
	writeFile(t, ws.config, `
catalog: `+ws.catalog+`
dataDir: `+filepath.Join(dir, "data")+`
fetcher:
  fixturesDir: `+ws.fixtures+`
throttle:
  baseDelayMs: 1
  jitterMs: 1
  cooldownMs: 1
cache:
  backend: memory
retry:
  baseDelayMs: 1
`)
	return ws
}

// addLegs records the response of one hop.
func (ws *workspace) addLegs(t *testing.T, origin, dest, date string, legs ...model.RawLeg) {
	t.Helper()

	data, err := json.Marshal(map[string][]model.RawLeg{"flights": legs})
	if err != nil {
		t.Fatalf("failed to encode legs: %v", err)
	}
	writeFile(t, filepath.Join(ws.fixtures, origin+"-"+dest+"-"+date+".json"), string(data))
}

func leg(origin, dest, date, dep, arr string) model.RawLeg {
	return model.RawLeg{
		DepartureStation: origin,
		ArrivalStation:   dest,
		DepartureDate:    date,
		DepartureTime:    dep,
		ArrivalTime:      arr,
		DepartureOffset:  "UTC+01:00",
		ArrivalOffset:    "UTC+01:00",
		FlightCode:       "W6" + origin + dest,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
