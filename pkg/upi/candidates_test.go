package upi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(list []Candidate) []CandidateKind {
	out := make([]CandidateKind, 0, len(list))
	for _, c := range list {
		out = append(out, c.Kind)
	}
	return out
}

func TestCandidatesOrder(t *testing.T) {
	d := registration()
	list := Candidates(d)
	require.Len(t, list, 9)

	assert.Equal(t, []CandidateKind{
		KindGeneric,
		KindApp, KindApp, KindApp, KindApp,
		KindUniversal, KindUniversal, KindUniversal,
		KindWeb,
	}, kinds(list))

	assert.Equal(t, BuildURI(d), list[0].URL)
	assert.Equal(t, "PhonePe", list[1].Name)
	assert.Equal(t, "BHIM", list[4].Name)
	assert.Equal(t, "phonepe.com", list[5].Name)
	assert.Equal(t, "pay.google.com", list[6].Name)
	assert.Equal(t, "paytm.me", list[7].Name)
	assert.Equal(t, WebURL(d), list[8].URL)
}

func TestCandidatesFor(t *testing.T) {
	d := registration()

	assert.Equal(t, Candidates(d), CandidatesFor(PlatformIOS, d))
	assert.Equal(t, []CandidateKind{KindGeneric, KindWeb}, kinds(CandidatesFor(PlatformAndroid, d)))
	assert.Equal(t, []CandidateKind{KindWeb}, kinds(CandidatesFor(PlatformDesktop, d)))
	assert.Equal(t, []CandidateKind{KindWeb}, kinds(CandidatesFor("", d)))
}

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		ua   string
		want Platform
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15", PlatformIOS},
		{"Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X)", PlatformIOS},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36", PlatformAndroid},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", PlatformDesktop},
		{"", PlatformDesktop},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectPlatform(tc.ua), tc.ua)
	}
}
