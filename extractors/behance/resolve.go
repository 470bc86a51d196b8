package behance

// resolveStrategy tries to pick a download url out of a module's size map.
type resolveStrategy func(sizes map[string]any) string

var (
	premiumKeys = []string{"fs_webp", "original_webp", "max_3840_webp", "max_1920_webp"}
	legacyKeys  = []string{"fs_webp", "source", "max_3840", "size_2560", "size_2000", "size_1400", "size_1200"}
)

// strategies in priority order.
var strategies = []resolveStrategy{
	premiumVariant,
	sourceVariant,
	widestVariant,
	legacySize,
}

func bestURL(sizes map[string]any) string {
	if sizes == nil {
		return ""
	}
	for _, s := range strategies {
		if u := s(sizes); u != "" {
			return u
		}
	}
	return ""
}

func available(sizes map[string]any) []map[string]any {
	var out []map[string]any
	for _, v := range arr(sizes, "allAvailable") {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func premiumVariant(sizes map[string]any) string {
	all := available(sizes)
	for _, key := range premiumKeys {
		for _, s := range all {
			if str(s, "type") == key || str(s, "key") == key {
				if u := str(s, "url"); u != "" {
					return u
				}
			}
		}
	}
	return ""
}

func sourceVariant(sizes map[string]any) string {
	for _, s := range available(sizes) {
		if t := str(s, "type"); t == "source" || t == "original" {
			if u := str(s, "url"); u != "" {
				return u
			}
		}
	}
	return ""
}

func widestVariant(sizes map[string]any) string {
	best, bestWidth := "", -1
	for _, s := range available(sizes) {
		if w := num(s["width"]); w > bestWidth {
			best, bestWidth = str(s, "url"), w
		}
	}
	return best
}

func legacySize(sizes map[string]any) string {
	for _, key := range legacyKeys {
		switch v := sizes[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if u := str(v, "url", "src"); u != "" {
				return u
			}
		}
	}
	return ""
}
