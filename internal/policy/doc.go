// Package policy assembles the finished insurance policy document.
//
// The Assembler takes a captured record and an optional generated narrative
// and produces a Policy with a timestamp-plus-random-suffix number, a one-year
// validity window, and the fixed premium. When no narrative is supplied the
// body is a deterministic template containing every captured field. The clock
// and the number suffix source are injected so tests produce stable artifacts.
package policy
