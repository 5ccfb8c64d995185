// ABOUTME: Document extraction adapter interface and record types
// ABOUTME: Turns an attachment reference into typed fields for one document

package extract

import "context"

// IdentityRecord holds the fields read from a passport photo.
type IdentityRecord struct {
	FullName       string
	DateOfBirth    string
	PassportNumber string
}

// VehicleRecord holds the fields read from a vehicle identification document.
type VehicleRecord struct {
	Make  string
	Model string
	Year  string
	Plate string
}

// Extractor reads structured data out of a previously received attachment.
// Implementations may call a remote OCR service; errors are returned to the
// caller, which decides between retry and a user-visible recovery message.
type Extractor interface {
	ExtractIdentity(ctx context.Context, attachmentRef string) (IdentityRecord, error)
	ExtractVehicle(ctx context.Context, attachmentRef string) (VehicleRecord, error)
}
