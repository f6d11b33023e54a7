// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Text similarity uses
// github.com/agnivade/levenshtein and page OCR fans out with errgroup.
package services
