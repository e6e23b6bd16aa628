// Package analyzers provides type-specific document analysis.
//
// Each subpackage handles one structural family of files (pdf, plaintext,
// tabular, spreadsheet, word, record) and implements driven.Analyzer.
// This package holds the registry that classifies files by extension and
// the shared helpers for text splitting, topic extraction and summary
// generation.
package analyzers
