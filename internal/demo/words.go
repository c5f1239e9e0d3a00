package demo

// Word lists for generated product names. Each name is adjective noun category brand.
var (
	adjectives = []string{
		"premium", "deluxe", "luxury", "elegant", "classic", "modern", "vintage", "smart",
		"portable", "compact", "lightweight", "durable", "robust", "advanced", "professional",
		"digital", "analog", "wireless", "wired", "electronic", "mechanical", "organic",
		"natural", "synthetic", "handcrafted", "innovative", "traditional", "custom",
		"standard", "special", "exclusive", "essential", "ultimate", "extreme", "practical",
		"functional", "ergonomic", "stylish", "sleek", "sporty", "rugged", "tactical",
		"refined", "enhanced", "improved", "heavy-duty", "basic", "high-end",
		"budget", "affordable", "valuable",
	}
	nouns = []string{
		"device", "gadget", "tool", "appliance", "system", "equipment", "accessory",
		"component", "product", "solution", "machine", "instrument", "apparatus", "mechanism",
		"contraption", "technology", "innovation", "invention", "creation", "design",
		"package", "set", "kit", "collection", "assortment", "bundle", "pack", "container",
		"box", "case", "holder", "organizer", "carrier", "bag", "pouch", "wallet", "purse",
		"backpack", "laptop", "tablet", "phone", "watch", "camera", "headphones", "speaker",
		"charger", "cable", "adapter", "monitor", "keyboard", "mouse", "controller", "console",
		"processor",
	}
	categories = []string{
		"pro", "lite", "mini", "max", "ultra", "plus", "premium", "elite", "executive",
		"signature", "limited", "special", "exclusive", "classic", "essential", "standard",
		"basic", "advanced", "professional", "home", "office", "travel", "outdoor", "sport",
		"gaming", "entertainment", "media", "creator", "developer", "designer", "artist",
		"studio", "workshop", "laboratory", "industrial", "commercial", "enterprise",
		"business", "personal", "family", "kids", "teen", "adult", "senior", "universal",
		"global", "local", "urban", "rural", "tactical", "strategic",
	}
	brands = []string{
		"techno", "nova", "nexus", "vertex", "apex", "zenith", "pinnacle", "summit", "horizon",
		"vortex", "quantum", "matrix", "spectrum", "fusion", "synergy", "echo", "pulse",
		"wave", "flux", "current", "core", "element", "atom", "particle", "vector", "origin",
		"source", "essence", "vitality", "vigor", "force", "power", "energy", "momentum",
		"drive", "thrust", "velocity", "speed", "pace", "tempo", "rhythm", "harmony",
		"balance", "unity", "alliance", "collective", "group", "team", "squad", "ensemble",
		"symphony", "orchestra", "band",
	}
)
