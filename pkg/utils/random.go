package utils

import (
	"crypto/rand"
	"math/big"
)

// CategoryPalette สีที่ใช้แนะนำตอนสร้าง category (tailwind 500/600)
var CategoryPalette = []string{
	"#EF4444", "#F97316", "#EAB308", "#22C55E", "#06B6D4", "#3B82F6",
	"#8B5CF6", "#EC4899", "#64748B", "#DC2626", "#EA580C", "#CA8A04",
	"#16A34A", "#0891B2", "#2563EB", "#7C3AED", "#DB2777",
}

// RandomPaletteColor สุ่มสีจาก CategoryPalette
func RandomPaletteColor() string {
	return CategoryPalette[randomIndex(len(CategoryPalette))]
}

func randomIndex(n int) int {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(num.Int64())
}
