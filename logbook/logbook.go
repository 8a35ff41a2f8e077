// Package logbook loads the voyage track from the embedded log or a file.
package logbook

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/voyage-log/track"
)

//go:embed data/voyage.json
var voyage []byte

type document struct {
	Name   string           `json:"name"`
	Legs   []track.LegDef   `json:"legs"`
	Points []track.Waypoint `json:"points"`
	Events []track.Event    `json:"events"`
}

// Default returns the voyage baked into the binary
func Default() (*track.Track, error) {
	return LoadJSON(bytes.NewReader(voyage))
}

// Load reads a .json or .gpx track file
func Load(file string) (*track.Track, error) {
	f, err := os.Open(file)
	if err != nil {
		log.Errorf("Error reading file '%s'", file)
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(file)) {
	case ".gpx":
		return LoadGPX(f)
	case ".json":
		return LoadJSON(f)
	}
	return nil, fmt.Errorf("unsupported track file '%s'", file)
}

func LoadJSON(r io.Reader) (*track.Track, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding track: %w", err)
	}

	t, err := track.New(doc.Name, doc.Legs, doc.Points, doc.Events)
	if err != nil {
		return nil, err
	}

	log.Infof("Loaded '%s': %d waypoints, %d legs, %d events", t.Name, t.Len(), len(t.LegNames()), len(doc.Events))
	return t, nil
}
