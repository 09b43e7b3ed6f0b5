package game

import "testing"

func TestGenerateBlocksTower(t *testing.T) {
	blocks := GenerateBlocks()
	if len(blocks) != TotalBlocks {
		t.Fatalf("expected %d blocks, got %d", TotalBlocks, len(blocks))
	}

	seen := make(map[int]bool)
	for _, b := range blocks {
		if b.ID < 1 || b.ID > TotalBlocks {
			t.Errorf("block id %d out of range", b.ID)
		}
		if seen[b.ID] {
			t.Errorf("duplicate block id %d", b.ID)
		}
		seen[b.ID] = true
		if b.Removed {
			t.Errorf("block %d generated already removed", b.ID)
		}

		wantLevel := (b.ID + 2) / 3
		if b.Level != wantLevel {
			t.Errorf("block %d: level = %d, want %d", b.ID, b.Level, wantLevel)
		}

		var wantColor BlockColor
		switch {
		case b.ID <= 18:
			wantColor = ColorTier1
		case b.ID <= 36:
			wantColor = ColorTier2
		case b.ID <= 45:
			wantColor = ColorTier3
		default:
			wantColor = ColorTier4
		}
		if b.Color != wantColor {
			t.Errorf("block %d: color = %s, want %s", b.ID, b.Color, wantColor)
		}
	}

	if blocks[0].Level != 1 || blocks[TotalBlocks-1].Level != Levels {
		t.Errorf("levels span %d..%d, want 1..%d", blocks[0].Level, blocks[TotalBlocks-1].Level, Levels)
	}
}

func TestPenaltyByColor(t *testing.T) {
	cases := []struct {
		color BlockColor
		want  int
	}{
		{ColorTier1, 2},
		{ColorTier2, 3},
		{ColorTier3, 6},
		{ColorTier4, 1},
	}
	for _, c := range cases {
		if got := c.color.Penalty(); got != c.want {
			t.Errorf("%s penalty = %d, want %d", c.color, got, c.want)
		}
	}
}
