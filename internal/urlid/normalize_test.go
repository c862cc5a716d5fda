package urlid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips utm params", "https://x.com/job?utm_source=a&id=5", "https://x.com/job?id=5"},
		{"sorts params", "https://x.com/job?b=2&a=1", "https://x.com/job?a=1&b=2"},
		{"sorts repeated names by value", "https://x.com/job?a=2&a=1", "https://x.com/job?a=1&a=2"},
		{"lowercases everything", "HTTPS://Jobs.Example.COM/Careers/Eng?Team=Infra", "https://jobs.example.com/careers/eng?team=infra"},
		{"strips trailing slash", "https://x.com/jobs/123/", "https://x.com/jobs/123"},
		{"strips only one trailing slash", "https://x.com/a//", "https://x.com/a/"},
		{"keeps root slash", "https://x.com/", "https://x.com/"},
		{"adds root slash", "https://x.com", "https://x.com/"},
		{"drops fragment", "https://x.com/job#apply", "https://x.com/job"},
		{"drops port and userinfo", "https://user:pw@x.com:8443/job", "https://x.com/job"},
		{"drops all tracking params", "https://x.com/job?fbclid=1&gclid=2&ref=li&_ga=3", "https://x.com/job"},
		{"tracking match ignores case", "https://x.com/job?UTM_Source=news&id=7", "https://x.com/job?id=7"},
		{"skips empty pairs", "https://x.com/job?&id=5&&", "https://x.com/job?id=5"},
		{"keeps empty values", "https://x.com/job?remote", "https://x.com/job?remote="},
		{"re-encodes values", "https://x.com/search?q=go+developer", "https://x.com/search?q=go+developer"},
		{"ipv6 host", "http://[::1]:8080/job", "http://[::1]/job"},
		{"invalid falls back to lowercase", "Not A URL", "not a url"},
		{"missing scheme falls back", "X.com/Job?utm_source=a", "x.com/job?utm_source=a"},
		{"empty string", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_TrackingAndOrderInsensitive(t *testing.T) {
	variants := []string{
		"https://x.com/job?id=5&team=eng",
		"https://x.com/job?team=eng&id=5",
		"https://x.com/job?utm_source=a&id=5&team=eng",
		"https://x.com/job?team=eng&utm_medium=email&id=5&gclid=abc",
		"https://X.com/job/?id=5&team=eng&ref=linkedin",
	}

	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, Normalize(v), "variant %s", v)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://x.com/job?utm_source=a&id=5",
		"https://x.com/a/",
		"https://x.com/path%2Fwith%2Fslashes?q=a%20b",
		"https://x.com/search?q=c%2B%2B&lang=EN",
		"garbage input",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %s", in)
	}
}

func TestNewNormalizer_ExtraParams(t *testing.T) {
	n := NewNormalizer("gh_src", "  ", "Trk")

	assert.Equal(t, "https://x.com/job?id=1", n.Normalize("https://x.com/job?id=1&gh_src=abc&trk=feed"))
	assert.True(t, n.IsTracking("utm_source"), "defaults are kept")
	assert.True(t, n.IsTracking("TRK"))
	assert.False(t, n.IsTracking(""))

	// The default normalizer is not affected.
	assert.Equal(t, "https://x.com/job?gh_src=abc&id=1", Normalize("https://x.com/job?id=1&gh_src=abc"))
}

func TestDomain(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.example.com/page", "www.example.com"},
		{"http://Boards.Greenhouse.io/acme/jobs/1", "boards.greenhouse.io"},
		{"https://example.com:8443", "example.com"},
		{"not a url", ""},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, Domain(tc.url), "domain for %s", tc.url)
	}
}

func TestDefaultTrackingParamsIsPopulated(t *testing.T) {
	params := DefaultTrackingParams()
	assert.Greater(t, len(params), 10)
	assert.Contains(t, params, "utm_source")
	assert.Contains(t, params, "fbclid")
	assert.Contains(t, params, "gclid")
	assert.Contains(t, params, "mc_eid")
}
