package nws

import (
	"log"

	"github.com/lox/flamingo/internal/models"
)

const (
	FlagTempOutOfRange    = "temp_out_of_range"
	FlagCloudCoverInvalid = "cloud_cover_invalid"
	FlagPrecipInvalid     = "precip_invalid"
)

// ValidatePeriod returns quality flags for values no forecast should contain.
func ValidatePeriod(p *models.Period) []string {
	var flags []string

	if temp, ok := p.TemperatureF(); ok {
		if temp < -80 || temp > 140 {
			flags = append(flags, FlagTempOutOfRange)
		}
	}

	if p.CloudCover != nil {
		if *p.CloudCover < 0 || *p.CloudCover > 100 {
			flags = append(flags, FlagCloudCoverInvalid)
		}
	}

	if p.PrecipitationChance != nil {
		if *p.PrecipitationChance < 0 || *p.PrecipitationChance > 100 {
			flags = append(flags, FlagPrecipInvalid)
		}
	}

	return flags
}

// scrub clears flagged values so they read as absent. A period with an
// implausible temperature can then no longer be rated.
func scrub(p *models.Period) {
	flags := ValidatePeriod(p)
	if len(flags) == 0 {
		return
	}
	log.Printf("nws: period %d (%s): quality flags %v", p.Number, p.Name, flags)

	for _, f := range flags {
		switch f {
		case FlagTempOutOfRange:
			p.Temperature = nil
		case FlagCloudCoverInvalid:
			p.CloudCover = nil
		case FlagPrecipInvalid:
			p.PrecipitationChance = nil
		}
	}
}
