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
//   - Analyzer: Extracts structure and chunks from one file type
//   - AnalyzerRegistry: Selects the analyzer for a file
//   - DocumentStore: Document and chunk persistence
//   - VectorIndex: Vector storage and similarity search
//   - EmbeddingService: Generates vector embeddings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: The external generation capability. Without it,
//     comprehensive search returns retrieval results without an answer.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or analyzer package
package driven
