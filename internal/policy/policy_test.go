// ABOUTME: Tests for the policy assembler
// ABOUTME: Uses a fixed clock and suffix so artifacts are deterministic

package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillcover/polisbot/internal/session"
)

var testRecord = &session.Record{
	FullName:       "John Smith",
	DateOfBirth:    "15-05-1985",
	PassportNumber: "AB123456",
	VehicleMake:    "Toyota",
	VehicleModel:   "Camry",
	VehicleYear:    "2020",
	VehiclePlate:   "XYZ789",
}

func fixedAssembler(now time.Time) *Assembler {
	return NewAssembler(
		func() time.Time { return now },
		func() string { return "DEADBEEF" },
	)
}

func TestAssembler_OneYearValidityAndFixedPremium(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	p := fixedAssembler(now).Assemble(testRecord, "")

	assert.Equal(t, now, p.StartDate)
	assert.Equal(t, now.AddDate(1, 0, 0), p.EndDate)
	assert.Equal(t, PremiumUSD, p.PremiumUSD)
	assert.Equal(t, 100, p.PremiumUSD)
}

func TestAssembler_NumberUsesDateAndSuffix(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	p := fixedAssembler(now).Assemble(testRecord, "")

	assert.Equal(t, "POL-20260301-DEADBEEF", p.Number)
}

func TestAssembler_FallbackBodyContainsEverything(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	p := fixedAssembler(now).Assemble(testRecord, "")

	for _, want := range []string{
		"CAR INSURANCE POLICY",
		"POL-20260301-DEADBEEF",
		"John Smith",
		"2020 Toyota Camry",
		"XYZ789",
		"01-03-2026 to 01-03-2027",
		"PREMIUM: 100 USD",
	} {
		assert.Contains(t, p.Body, want)
	}
}

func TestAssembler_NarrativeBodyIsUsedVerbatim(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	p := fixedAssembler(now).Assemble(testRecord, "Generated policy text.")

	assert.Equal(t, "Generated policy text.", p.Body)
}

func TestAssembler_DefaultsProduceDistinctNumbers(t *testing.T) {
	a := NewAssembler(nil, nil)

	p1 := a.Assemble(testRecord, "")
	p2 := a.Assemble(testRecord, "")

	// Collisions are tolerated but should be vanishingly rare
	assert.NotEqual(t, p1.Number, p2.Number)
	require.False(t, p1.StartDate.IsZero())
}

func TestFilename_SanitizesUserKey(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 30, 45, 0, time.UTC)
	name := Filename("!abc:example.org", issued)

	assert.Equal(t, "policy__abc_example.org_20260301093045.txt", name)
}
