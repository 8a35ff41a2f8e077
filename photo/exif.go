package photo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/a-bouts/voyage-log/latlon"
)

var ErrMetadataExtractionFailed = errors.New("no location metadata")

// LocationReader extracts where a photo was taken
type LocationReader interface {
	ReadLocation(data []byte) (latlon.LatLon, error)
}

// ExifReader reads the GPS tags of the EXIF block
type ExifReader struct{}

func (ExifReader) ReadLocation(data []byte) (latlon.LatLon, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return latlon.LatLon{}, fmt.Errorf("%w: %v", ErrMetadataExtractionFailed, err)
	}

	lat, lon, err := x.LatLong()
	if err != nil {
		return latlon.LatLon{}, fmt.Errorf("%w: %v", ErrMetadataExtractionFailed, err)
	}

	return latlon.LatLon{Lat: lat, Lon: lon}, nil
}
