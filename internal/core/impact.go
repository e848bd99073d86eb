package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"ecotrack-backend-go/internal/models"
)

// Baselines reported on top of the computed totals.
const (
	BaselineCO2Saved       = 40
	BaselinePlasticReduced = 20
	BaselineEnergySaved    = 30
)

type impactBucket int

const (
	bucketNone impactBucket = iota
	bucketVolume
	bucketMass
	bucketEnergy
)

// parseImpactMetric extracts the magnitude and unit of a free-text metric
// such as "5 kg plastic saved" or "10kWh". The magnitude is the first token
// holding a digit with every other character removed; the unit is the letters
// following the number in that token, or else the next token.
//
// Only the first such token counts. A metric that mentions a digit before its
// quantity, like "CO2 saved: 10 kg", parses as 2 "saved:" and contributes to
// no bucket. Like the "kcal" case in classifyUnit this is a known limitation
// of the free-text format and is kept as is.
func parseImpactMetric(metric string) (float64, string, bool) {
	tokens := strings.Fields(metric)
	for i, tok := range tokens {
		if !strings.ContainsFunc(tok, unicode.IsDigit) {
			continue
		}
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) || r == '.' {
				return r
			}
			return -1
		}, tok)
		magnitude, err := strconv.ParseFloat(digits, 64)
		if err != nil || math.IsNaN(magnitude) {
			return 0, "", false
		}

		unit := ""
		if last := strings.LastIndexFunc(tok, func(r rune) bool { return unicode.IsDigit(r) || r == '.' }); last >= 0 {
			unit = strings.Map(func(r rune) rune {
				if unicode.IsLetter(r) {
					return r
				}
				return -1
			}, tok[last+1:])
		}
		if unit == "" && i+1 < len(tokens) {
			unit = tokens[i+1]
		}
		return magnitude, strings.ToLower(strings.TrimSpace(unit)), true
	}
	return 0, "", false
}

// classifyUnit picks the first matching bucket. The "l" test runs first, so
// units such as "kcal" land in the volume bucket.
func classifyUnit(unit string) impactBucket {
	switch {
	case strings.Contains(unit, "l"):
		return bucketVolume
	case strings.Contains(unit, "kg"):
		return bucketMass
	case strings.Contains(unit, "kwh"):
		return bucketEnergy
	}
	return bucketNone
}

// computeImpact sums magnitude × participant count per bucket on top of the baselines.
func computeImpact(challenges []*models.Challenge) *models.ImpactStats {
	volume, mass, energy := float64(BaselineCO2Saved), float64(BaselinePlasticReduced), float64(BaselineEnergySaved)
	for _, c := range challenges {
		magnitude, unit, ok := parseImpactMetric(c.ImpactMetric)
		if !ok {
			continue
		}
		contribution := magnitude * float64(len(c.Participants))
		switch classifyUnit(unit) {
		case bucketVolume:
			volume += contribution
		case bucketMass:
			mass += contribution
		case bucketEnergy:
			energy += contribution
		}
	}
	return &models.ImpactStats{
		CO2Saved:       int64(math.Round(volume)),
		PlasticReduced: int64(math.Round(mass)),
		EnergySaved:    int64(math.Round(energy)),
	}
}
