package game

// BlockColor groups blocks into the four penalty tiers. The string values are
// part of the wire contract with the client.
type BlockColor string

const (
	ColorTier1 BlockColor = "tier1" // blue, ids 1-18
	ColorTier2 BlockColor = "tier2" // green, ids 19-36
	ColorTier3 BlockColor = "tier3" // red, ids 37-45
	ColorTier4 BlockColor = "tier4" // yellow, ids 46-54
)

const (
	Levels         = 18
	BlocksPerLevel = 3
	TotalBlocks    = Levels * BlocksPerLevel
)

type Block struct {
	ID      int        `json:"id"`
	Level   int        `json:"level"`
	Color   BlockColor `json:"color"`
	Removed bool       `json:"removed"`
}

// Penalty is the stability cost of pulling a block of this color.
func (c BlockColor) Penalty() int {
	switch c {
	case ColorTier1:
		return 2
	case ColorTier2:
		return 3
	case ColorTier3:
		return 6
	default:
		return 1
	}
}

func colorForID(id int) BlockColor {
	switch {
	case id <= 18:
		return ColorTier1
	case id <= 36:
		return ColorTier2
	case id <= 45:
		return ColorTier3
	default:
		return ColorTier4
	}
}

// GenerateBlocks builds the fixed 54-block tower, three blocks per level.
// Block ids start at 1 and never change for the lifetime of a room.
func GenerateBlocks() []Block {
	blocks := make([]Block, 0, TotalBlocks)
	for id := 1; id <= TotalBlocks; id++ {
		blocks = append(blocks, Block{
			ID:    id,
			Level: (id + 2) / 3,
			Color: colorForID(id),
		})
	}
	return blocks
}
