// ABOUTME: Document assembler producing the final insurance policy artifact
// ABOUTME: Clock and number source are injected so tests get deterministic output

package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quillcover/polisbot/internal/session"
)

// PremiumUSD is the fixed price of a policy. It is not negotiable.
const PremiumUSD = 100

// Policy is the finished artifact delivered to the user. Ownership passes to
// the transport after assembly; the engine does not retain it.
type Policy struct {
	Number       string
	InsuredName  string
	VehicleInfo  string
	LicensePlate string
	StartDate    time.Time
	EndDate      time.Time
	PremiumUSD   int
	Body         string
}

// Clock supplies the current time. Production wiring uses time.Now.
type Clock func() time.Time

// NumberSource supplies the random suffix of a policy number. Collisions are
// tolerated; policy numbers are not required to be globally unique.
type NumberSource func() string

// UUIDSuffix is the default NumberSource: the first eight hex characters of a
// random UUID, uppercased.
func UUIDSuffix() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Assembler builds Policy artifacts from captured records.
type Assembler struct {
	now    Clock
	suffix NumberSource
}

// NewAssembler creates an Assembler. Nil arguments select the production
// defaults (time.Now, UUIDSuffix).
func NewAssembler(now Clock, suffix NumberSource) *Assembler {
	if now == nil {
		now = time.Now
	}
	if suffix == nil {
		suffix = UUIDSuffix
	}
	return &Assembler{now: now, suffix: suffix}
}

// Assemble combines a captured record and an optional generated body into a
// finished policy. The validity window is one year from now; if body is empty
// a deterministic template containing every captured field is used instead.
func (a *Assembler) Assemble(rec *session.Record, body string) *Policy {
	start := a.now()
	end := start.AddDate(1, 0, 0)
	number := fmt.Sprintf("POL-%s-%s", start.Format("20060102"), a.suffix())

	p := &Policy{
		Number:       number,
		InsuredName:  rec.FullName,
		VehicleInfo:  fmt.Sprintf("%s %s %s", rec.VehicleYear, rec.VehicleMake, rec.VehicleModel),
		LicensePlate: rec.VehiclePlate,
		StartDate:    start,
		EndDate:      end,
		PremiumUSD:   PremiumUSD,
		Body:         body,
	}
	if p.Body == "" {
		p.Body = renderFallback(p)
	}
	return p
}

// renderFallback produces the deterministic policy text used when no
// generated narrative is available.
func renderFallback(p *Policy) string {
	var b strings.Builder
	b.WriteString("CAR INSURANCE POLICY\n\n")
	fmt.Fprintf(&b, "POLICY NUMBER: %s\n\n", p.Number)
	fmt.Fprintf(&b, "INSURED: %s\n", p.InsuredName)
	fmt.Fprintf(&b, "VEHICLE: %s\n", p.VehicleInfo)
	fmt.Fprintf(&b, "LICENSE PLATE: %s\n", p.LicensePlate)
	fmt.Fprintf(&b, "COVERAGE PERIOD: %s to %s\n",
		p.StartDate.Format("02-01-2006"), p.EndDate.Format("02-01-2006"))
	fmt.Fprintf(&b, "PREMIUM: %d USD\n\n", p.PremiumUSD)
	b.WriteString("This policy provides standard coverage including liability, collision, ")
	b.WriteString("and comprehensive insurance as per the terms and conditions of our ")
	b.WriteString("standard insurance agreement.")
	return b.String()
}

// Filename returns the delivery filename for a user's policy document.
func Filename(userKey string, issued time.Time) string {
	return fmt.Sprintf("policy_%s_%s.txt", sanitize(userKey), issued.Format("20060102150405"))
}

// sanitize strips characters that are awkward in filenames from a user key
// (Matrix room IDs contain '!' and ':').
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
