// Package extract adapts a document-OCR service to typed records.
//
// One call takes one attachment reference and returns the fields for exactly
// one document category: IdentityRecord for passports, VehicleRecord for
// vehicle identification documents. The bundled CannedClient returns fixed
// demo data after a simulated delay; a production Extractor would call a
// real service and surface errors, which the conversation engine handles by
// retrying once and then asking the user to resend the document.
package extract
