package renderer

import (
	"image"
	"math/rand"
)

// Golden-ratio increment of splitmix64 and its square mod 2^64
const (
	phi64        uint64 = 0x9e3779b97f4a7c15
	phi64Squared uint64 = 0xdf442d22ce4859b9
)

// Tile represents a rectangular region of the image to be rendered.
// A tile is owned by exactly one worker at a time; its Random is never
// shared.
type Tile struct {
	ID              int             // Unique tile identifier, row-major
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Random          *rand.Rand      // Tile-specific random generator for deterministic results
	seed            int64
	attempt         int
}

// NewTile creates a new tile with the specified bounds and a generator
// derived from the render seed
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(DeriveTileSeed(seed, id, 0))),
		seed:   seed,
	}
}

// Reseed moves the tile to its next attempt stream. Used after a failed
// render so the retry does not replay the same samples.
func (t *Tile) Reseed() {
	t.attempt++
	t.Random = rand.New(rand.NewSource(DeriveTileSeed(t.seed, t.ID, t.attempt)))
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}

// DeriveTileSeed maps (render seed, tile, attempt) to a generator seed:
// splitmix64(seed + (tileID+1)·φ + attempt·φ²), with φ = 0x9e3779b97f4a7c15.
// It depends only on its arguments, never on worker count or scheduling.
func DeriveTileSeed(seed int64, tileID, attempt int) int64 {
	x := uint64(seed) + uint64(tileID+1)*phi64 + uint64(attempt)*phi64Squared
	return int64(splitmix64(x))
}

// splitmix64 finalizer (Steele, Lea, Flood 2014)
func splitmix64(x uint64) uint64 {
	x += phi64
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
