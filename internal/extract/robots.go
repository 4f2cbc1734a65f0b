package extract

import (
	"strings"

	"seoaudit/internal/domain"
)

// Legacy flat robots meta keys mirrored by the structured robots block.
const (
	metaRobotsNoindex  = "_yoast_wpseo_meta-robots-noindex"
	metaRobotsNofollow = "_yoast_wpseo_meta-robots-nofollow"
	metaRobotsAdv      = "_yoast_wpseo_meta-robots-adv"
)

// synthesizeRobots builds the robots directive string from the independent
// sub-directives. For each sub-directive the structured value wins and the
// flat meta key is the fallback; the choice is made per sub-directive, never
// as an all-or-nothing switch between the two sources.
func synthesizeRobots(structured domain.RobotsMeta, fields map[string]any) string {
	adv := domain.DigString(fields, "meta", metaRobotsAdv)

	var parts []string
	add := func(v string) {
		if v != "" {
			parts = append(parts, v)
		}
	}

	index := structured.Index
	if index == "" {
		if domain.DigString(fields, "meta", metaRobotsNoindex) == "1" {
			index = "noindex"
		} else {
			index = "index"
		}
	}
	add(index)

	follow := structured.Follow
	if follow == "" {
		if domain.DigString(fields, "meta", metaRobotsNofollow) == "1" {
			follow = "nofollow"
		} else {
			follow = "follow"
		}
	}
	add(follow)

	archive := structured.Archive
	if archive == "" && advContains(adv, "noarchive") {
		archive = "noarchive"
	}
	add(archive)

	snippet := structured.Snippet
	if snippet == "" && advContains(adv, "nosnippet") {
		snippet = "nosnippet"
	}
	add(snippet)

	imageIndex := structured.ImageIndex
	if imageIndex == "" && advContains(adv, "noimageindex") {
		imageIndex = "noimageindex"
	}
	add(imageIndex)

	if structured.MaxSnippet != "" {
		add("max-snippet:" + structured.MaxSnippet)
	}
	if structured.MaxImagePreview != "" {
		add("max-image-preview:" + structured.MaxImagePreview)
	}
	if structured.MaxVideoPreview != "" {
		add("max-video-preview:" + structured.MaxVideoPreview)
	}

	return strings.Join(parts, ", ")
}

// advContains checks the comma-separated advanced directive list.
func advContains(adv, directive string) bool {
	for _, item := range strings.Split(adv, ",") {
		if strings.TrimSpace(item) == directive {
			return true
		}
	}
	return false
}
