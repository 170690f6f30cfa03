package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNorm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and lowers", "  Breast Cancer  ", "breast cancer"},
		{"empty stays empty", "", ""},
		{"nan collapses", "NaN", ""},
		{"n/a collapses", " N/A ", ""},
		{"unknown collapses", "Unknown", ""},
		{"real value survives", "BRCA1", "brca1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Norm(tt.in))
		})
	}
}

func TestIsEffectivelyEmpty(t *testing.T) {
	assert.True(t, IsEffectivelyEmpty("  "))
	assert.True(t, IsEffectivelyEmpty("na"))
	assert.True(t, IsEffectivelyEmpty("UNKNOWN"))
	assert.False(t, IsEffectivelyEmpty("melanoma"))
}

func TestFixMojibake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"â‰¥ 18 years", "≥ 18 years"},
		{"ECOG â‰¤ 2", "ECOG ≤ 2"},
		{"patientâ€™s consent", "patient's consent"},
		{"Â± 3 days", "± 3 days"},
		{"plain ascii", "plain ascii"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FixMojibake(tt.in))
	}
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "≥ 2 organs", CleanCell("  â‰¥ 2 organs "))
	// CleanCell preserves case, unlike Norm.
	assert.Equal(t, "Breast", CleanCell(" Breast "))
}
