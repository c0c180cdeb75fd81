package trends

import (
	"fmt"
	"strings"
)

// Resolution is the geographic granularity requested from the
// interest-by-region widget. The value is the provider code.
type Resolution string

const (
	ResolutionCity    Resolution = "CITY"
	ResolutionMetro   Resolution = "DMA"
	ResolutionRegion  Resolution = "REGION"
	ResolutionCountry Resolution = "COUNTRY"
)

// Resolutions lists the supported granularities, finest first.
var Resolutions = []Resolution{ResolutionCity, ResolutionMetro, ResolutionRegion, ResolutionCountry}

// Name returns the symbolic name (METRO for DMA).
func (r Resolution) Name() string {
	if r == ResolutionMetro {
		return "METRO"
	}
	return string(r)
}

func (r Resolution) String() string {
	return string(r)
}

func (r Resolution) Valid() bool {
	switch r {
	case ResolutionCity, ResolutionMetro, ResolutionRegion, ResolutionCountry:
		return true
	}
	return false
}

// ParseResolution accepts either the symbolic name or the provider code,
// case-insensitively.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CITY":
		return ResolutionCity, nil
	case "METRO", "DMA":
		return ResolutionMetro, nil
	case "REGION":
		return ResolutionRegion, nil
	case "COUNTRY":
		return ResolutionCountry, nil
	}
	return "", fmt.Errorf("unknown resolution %q (want CITY, METRO, REGION or COUNTRY)", s)
}
