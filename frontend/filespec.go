package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/speedata/imgbinder/backend/raster"
)

// ParseFileSpec splits a file name with an optional clockwise rotation
// appended after an @ sign, for example "scan.jpg@90" or "photo.png@-90".
// Without a valid rotation suffix the whole string is the file name.
func ParseFileSpec(spec string) (string, raster.Rotation, error) {
	i := strings.LastIndexByte(spec, '@')
	if i < 0 {
		return spec, raster.Rotate0, nil
	}
	deg, err := strconv.Atoi(spec[i+1:])
	if err != nil {
		// an @ that is part of the file name
		return spec, raster.Rotate0, nil
	}
	if i == 0 {
		return "", 0, fmt.Errorf("no file name in %q", spec)
	}
	r, err := raster.NewRotation(deg)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", spec, err)
	}
	return spec[:i], r, nil
}
