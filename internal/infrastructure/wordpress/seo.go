package wordpress

import "seoaudit/internal/domain"

// Legacy flat Yoast meta keys, mirrored field-by-field by the structured
// yoast_head_json block. Neither form is guaranteed to be present.
const (
	metaTitle           = "_yoast_wpseo_title"
	metaDescription     = "_yoast_wpseo_metadesc"
	metaCanonical       = "_yoast_wpseo_canonical"
	metaFocusKeyword    = "_yoast_wpseo_focuskw"
	metaOGTitle         = "_yoast_wpseo_opengraph-title"
	metaOGDescription   = "_yoast_wpseo_opengraph-description"
	metaOGImage         = "_yoast_wpseo_opengraph-image"
	metaTwitterTitle    = "_yoast_wpseo_twitter-title"
	metaTwitterDesc     = "_yoast_wpseo_twitter-description"
	metaTwitterImage    = "_yoast_wpseo_twitter-image"
	metaPrimaryCategory = "_yoast_wpseo_primary_category"
)

// normalizeSEO builds the normalized metadata view: the structured
// yoast_head_json block wins per field, flat meta keys fill the gaps.
func normalizeSEO(payload map[string]any) domain.SEOMeta {
	seo := domain.SEOMeta{
		Title:              pick(payload, []string{"yoast_head_json", "title"}, metaTitle),
		Description:        pick(payload, []string{"yoast_head_json", "description"}, metaDescription),
		Canonical:          pick(payload, []string{"yoast_head_json", "canonical"}, metaCanonical),
		FocusKeyword:       pick(payload, nil, metaFocusKeyword),
		OGTitle:            pick(payload, []string{"yoast_head_json", "og_title"}, metaOGTitle),
		OGDescription:      pick(payload, []string{"yoast_head_json", "og_description"}, metaOGDescription),
		OGImage:            pick(payload, nil, metaOGImage),
		TwitterTitle:       pick(payload, []string{"yoast_head_json", "twitter_title"}, metaTwitterTitle),
		TwitterDescription: pick(payload, []string{"yoast_head_json", "twitter_description"}, metaTwitterDesc),
		TwitterImage:       pick(payload, []string{"yoast_head_json", "twitter_image"}, metaTwitterImage),
		PrimaryCategory:    pick(payload, nil, metaPrimaryCategory),
		Robots:             structuredRobots(payload),
	}

	// og_image is an array of {url} objects in the structured block.
	if seo.OGImage == "" {
		if images := domain.DigSlice(payload, "yoast_head_json", "og_image"); len(images) > 0 {
			if img, ok := images[0].(map[string]any); ok {
				seo.OGImage = domain.DigString(img, "url")
			}
		}
	}
	return seo
}

// pick prefers the structured block path and falls back to the flat meta key.
func pick(payload map[string]any, structured []string, metaKey string) string {
	if len(structured) > 0 {
		if v := domain.DigString(payload, structured...); v != "" {
			return v
		}
	}
	if metaKey != "" {
		if v := domain.DigString(payload, "meta", metaKey); v != "" {
			return v
		}
	}
	return ""
}

// structuredRobots lifts the per-sub-directive values from the structured
// block only. Flat-key fallbacks are applied downstream per sub-directive,
// so absent values stay empty here rather than defaulting.
func structuredRobots(payload map[string]any) domain.RobotsMeta {
	robots := domain.DigMap(payload, "yoast_head_json", "robots")
	if robots == nil {
		return domain.RobotsMeta{}
	}
	return domain.RobotsMeta{
		Index:           domain.DigString(robots, "index"),
		Follow:          domain.DigString(robots, "follow"),
		Archive:         domain.DigString(robots, "archive"),
		Snippet:         domain.DigString(robots, "snippet"),
		ImageIndex:      domain.DigString(robots, "imageindex"),
		MaxSnippet:      domain.DigString(robots, "max-snippet"),
		MaxImagePreview: domain.DigString(robots, "max-image-preview"),
		MaxVideoPreview: domain.DigString(robots, "max-video-preview"),
	}
}
