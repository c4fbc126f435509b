package catalog

import "time"

// DefaultConfig returns the configuration used when a file omits values or
// cannot be loaded at all.
func DefaultConfig() Config {
	return Config{
		MaxCards:            24,
		MinCards:            2,
		DefaultCards:        4,
		MaxStackSize:        8,
		FlipResolutionDelay: 1000 * time.Millisecond,
		MatchDelay:          500 * time.Millisecond,
	}
}

var fallbackCards = []Card{
	{ID: 1, Name: "Dragon", Icon: "🐉", Color: "#e74c3c", Points: 50, Rarity: Legendary},
	{ID: 2, Name: "Phoenix", Icon: "🔥", Color: "#e67e22", Points: 40, Rarity: Legendary},
	{ID: 3, Name: "Unicorn", Icon: "🦄", Color: "#9b59b6", Points: 30, Rarity: Rare},
	{ID: 4, Name: "Wizard", Icon: "🧙", Color: "#3498db", Points: 25, Rarity: Rare},
	{ID: 5, Name: "Knight", Icon: "🛡", Color: "#95a5a6", Points: 15, Rarity: Uncommon},
	{ID: 6, Name: "Elf", Icon: "🏹", Color: "#27ae60", Points: 15, Rarity: Uncommon},
	{ID: 7, Name: "Goblin", Icon: "👺", Color: "#2ecc71", Points: 10, Rarity: Common},
	{ID: 8, Name: "Slime", Icon: "🟢", Color: "#1abc9c", Points: 5, Rarity: Common},
	{ID: 9, Name: "Bat", Icon: "🦇", Color: "#34495e", Points: 5, Rarity: Common},
	{ID: 10, Name: "Rat", Icon: "🐀", Color: "#7f8c8d", Points: 5, Rarity: Common},
}

// Fallback returns a fresh copy of the built-in catalog. It always passes
// Validate.
func Fallback() *Catalog {
	cards := make([]Card, len(fallbackCards))
	copy(cards, fallbackCards)
	return &Catalog{
		Cards:  cards,
		Config: DefaultConfig(),
		Source: "builtin",
	}
}
