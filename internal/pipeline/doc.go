// Package pipeline tracks the latest known state of the content-generation
// pipeline: current stage, the video in progress, percent progress, the last
// completed item and lifetime counters.
//
// There is exactly one record per process, owned by a Tracker. Inbound
// POST /api/pipeline/update payloads are partial merges — absent fields are
// left untouched — and a completed flag derives last_completed plus counter
// increments in the same locked apply. Nothing is persisted.
package pipeline
