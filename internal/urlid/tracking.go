package urlid

// DefaultTrackingParams returns the query parameters that never contribute to
// a job posting's identity. These include campaign tags, ad click IDs and
// referrer markers appended by job boards, newsletters and social shares.
func DefaultTrackingParams() []string {
	return []string{
		// UTM campaign tags
		"utm_source",
		"utm_medium",
		"utm_campaign",
		"utm_term",
		"utm_content",
		"utm_id",
		"utm_content_placement",

		// Ad click IDs
		"fbclid",
		"gclid",

		// Referrers
		"ref",
		"source",
		"referrer",

		// Analytics & mailing lists
		"_ga",
		"mc_eid",
	}
}
