package media

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// ErrNoCaptureTime is returned when EXIF data carries no usable timestamp.
var ErrNoCaptureTime = errors.New("no capture time in exif data")

// CaptureTime extracts the capture timestamp from the EXIF block of data.
// DateTimeOriginal is preferred over DateTimeDigitized. Timestamps carry no
// zone and are read as UTC.
func CaptureTime(data []byte) (time.Time, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return time.Time{}, fmt.Errorf("decode exif: %w", err)
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		s = strings.TrimRight(s, "\x00 ")
		if err != nil || s == "" {
			continue
		}
		t, err := time.ParseInLocation(exifTimeLayout, s, time.UTC)
		if err != nil {
			continue
		}
		return t, nil
	}

	return time.Time{}, ErrNoCaptureTime
}
