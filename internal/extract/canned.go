// ABOUTME: Canned extraction client returning fixed demo data
// ABOUTME: Simulates remote OCR latency; never fails

package extract

import (
	"context"
	"log/slog"
	"time"
)

// CannedClient is an Extractor that returns fixed demo data after a
// configurable delay, standing in for a real OCR backend. It never returns
// an error; the failure path exists for real implementations.
type CannedClient struct {
	latency time.Duration
	logger  *slog.Logger
}

// NewCannedClient creates a canned extraction client. latency simulates the
// round trip of the remote call; zero means respond immediately.
func NewCannedClient(latency time.Duration, logger *slog.Logger) *CannedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CannedClient{
		latency: latency,
		logger:  logger.With("component", "extract"),
	}
}

// ExtractIdentity returns demo passport data for the given attachment.
func (c *CannedClient) ExtractIdentity(ctx context.Context, attachmentRef string) (IdentityRecord, error) {
	c.logger.Info("extracting passport data", "attachment", attachmentRef)
	if err := c.wait(ctx); err != nil {
		return IdentityRecord{}, err
	}
	return IdentityRecord{
		FullName:       "John Smith",
		DateOfBirth:    "15-05-1985",
		PassportNumber: "AB123456",
	}, nil
}

// ExtractVehicle returns demo vehicle data for the given attachment.
func (c *CannedClient) ExtractVehicle(ctx context.Context, attachmentRef string) (VehicleRecord, error) {
	c.logger.Info("extracting vehicle data", "attachment", attachmentRef)
	if err := c.wait(ctx); err != nil {
		return VehicleRecord{}, err
	}
	return VehicleRecord{
		Make:  "Toyota",
		Model: "Camry",
		Year:  "2020",
		Plate: "XYZ789",
	}, nil
}

// wait sleeps for the configured latency, honoring context cancellation.
func (c *CannedClient) wait(ctx context.Context) error {
	if c.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(c.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
