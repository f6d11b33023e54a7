// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Reads the embedded text layer of a PDF (pdftotext)
//   - PageRenderer: Renders PDF pages to images (pdftoppm)
//   - OCREngine: Recognises text in a page image (Tesseract)
//   - PostProcessor: Turns acquired text into legal units
//   - UnitStore: Unit persistence and nearest-neighbour lookup
//   - EmbeddingService: Generates vector embeddings for units
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - JobStore: Ingestion run history
//   - AIConfigValidator: Checks embedding settings before they are saved
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, normaliser or postprocessor package
package driven
