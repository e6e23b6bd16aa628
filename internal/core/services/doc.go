// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Three services make up the retrieval core:
//
//   - AnalysisService: file -> Document + Chunks (type dispatch, embedding)
//   - IndexService: the vector store (upsert, staleness, hybrid search)
//   - SearchService: question -> balanced context -> generated answer
//
// Services are pure Go with no CGO or external dependencies beyond the
// ID scheme.
package services
