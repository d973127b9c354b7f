package content

// EnsureDefaults backfills a loaded content document so it carries every
// field of the current schema. It is pure in the sense that running it twice
// yields the same result as running it once, and all attached defaults are
// fresh values, never shared references.
func EnsureDefaults(doc map[string]any) map[string]any {
	if doc == nil {
		return DefaultDocument()
	}

	def := DefaultDocument()
	for _, key := range []string{"siteInfo", "contact", "stats", "services", "aboutSection", "footer", "contactSection"} {
		if _, ok := doc[key]; !ok {
			doc[key] = def[key]
		}
	}

	if _, ok := doc["teamSection"]; !ok {
		doc["teamSection"] = defaultTeamSection()
	}
	if experts, ok := doc["experts"].([]any); !ok || len(experts) == 0 {
		doc["experts"] = defaultExperts()
	}
	if _, ok := doc["testimonialsSection"]; !ok {
		doc["testimonialsSection"] = defaultTestimonialsSection()
	}
	if ts, ok := doc["testimonials"].([]any); !ok || len(ts) == 0 {
		doc["testimonials"] = defaultTestimonials()
	}

	order, ok := doc["sectionsOrder"].([]any)
	if !ok {
		order = []any{"hero", "services", "team", "testimonials", "about", "contact", "cta"}
	}
	// derived sections slot in right before "about" when missing
	for _, id := range []string{"testimonials", "news", "updates", "articles"} {
		order = insertBeforeAbout(order, id)
	}
	doc["sectionsOrder"] = order

	vis, ok := doc["sectionVisibility"].(map[string]any)
	if !ok {
		vis = map[string]any{}
	}
	for _, id := range []string{"testimonials", "news", "updates", "articles"} {
		if _, ok := vis[id]; !ok {
			vis[id] = true
		}
	}
	doc["sectionVisibility"] = vis

	ins, ok := doc["insurance"].(map[string]any)
	if !ok {
		ins = map[string]any{}
	}
	if !truthy(ins["blurb"]) {
		ins["blurb"] = defaultInsuranceBlurb()
	}
	if !truthy(ins["coverageLinkLabel"]) {
		ins["coverageLinkLabel"] = map[string]any{"en": "Check Your Coverage", "ar": "تحقق من التغطية"}
	}
	if !truthy(ins["coverageList"]) {
		ins["coverageList"] = map[string]any{"en": "", "ar": ""}
	}
	doc["insurance"] = ins

	return doc
}

func insertBeforeAbout(order []any, id string) []any {
	for _, v := range order {
		if v == id {
			return order
		}
	}
	for i, v := range order {
		if v == "about" {
			next := make([]any, 0, len(order)+1)
			next = append(next, order[:i]...)
			next = append(next, id)
			next = append(next, order[i:]...)
			return next
		}
	}
	return append(order, id)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case map[string]any:
		return true
	case []any:
		return true
	default:
		return true
	}
}
