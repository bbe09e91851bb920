// Package testmap synthesizes terrain for tests and the demonstration
// binary's dev mode. The production map always arrives pre-generated from
// an external map-generator component; nothing under internal/state or
// internal/tick imports this package.
package testmap

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexrealm/internal/worldmap"
)

// Config describes a deterministic terrain synthesis run over a
// rectangular grid.
type Config struct {
	Width, Height int
	Seed          int64
	SeaLevel      float64
	MountainLevel float64
}

func DefaultConfig(width, height int, seed int64) Config {
	return Config{
		Width:         width,
		Height:        height,
		Seed:          seed,
		SeaLevel:      0.30,
		MountainLevel: 0.78,
	}
}

// Generate produces a *worldmap.Map with layered simplex-noise elevation
// and rainfall-derived terrain using a multi-octave approach ported to
// the flat rectangular array.
func Generate(cfg Config) *worldmap.Map {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	rainNoise := opensimplex.NewNormalized(cfg.Seed + 1)

	m := worldmap.New(cfg.Width, cfg.Height)

	cx, cy := float64(cfg.Width)/2, float64(cfg.Height)/2
	maxDist := math.Hypot(cx, cy)

	for r := 0; r < cfg.Height; r++ {
		for q := 0; q < cfg.Width; q++ {
			x := float64(q) + float64(r)*0.5
			y := float64(r)

			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)

			distFromCenter := math.Hypot(float64(q)-cx, float64(r)-cy) / maxDist
			edgeFalloff := 1.0 - math.Pow(distFromCenter, 3.5)
			if edgeFalloff < 0 {
				edgeFalloff = 0
			}
			elev *= edgeFalloff

			c := worldmap.Coord{Q: q, R: r}
			m.SetTerrain(c, deriveTerrain(elev, rain, cfg))
			m.SetElevation(c, byte(elev*255))
		}
	}
	return m
}

func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	var total, amplitude, maxAmp float64
	amplitude = 1
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxAmp += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxAmp
}

func deriveTerrain(elev, rain float64, cfg Config) worldmap.Terrain {
	switch {
	case elev < cfg.SeaLevel*0.6:
		return worldmap.DeepWater
	case elev < cfg.SeaLevel:
		return worldmap.ShallowWater
	case elev < cfg.SeaLevel+0.03:
		return worldmap.Beach
	case elev > cfg.MountainLevel:
		return worldmap.Mountain
	case elev > cfg.MountainLevel-0.12:
		return worldmap.Hills
	case rain < 0.25:
		return worldmap.Desert
	case rain < 0.45:
		return worldmap.Plains
	case rain < 0.7:
		return worldmap.Grassland
	case elev > cfg.MountainLevel-0.25:
		return worldmap.Snow
	default:
		return worldmap.Forest
	}
}
