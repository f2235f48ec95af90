// Package pipeline streams record buffers from a Segmenter through an
// Extractor into a sink, one record at a time.
//
// The only contract to implement is Extractor (ExtractBytes).
// This keeps the pipeline swappable and testable.
package pipeline
