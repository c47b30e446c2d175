// Package fatrecov recovers deleted bitmaps from FAT32 images.
//
// The allocation table of a deleted file is gone, so the Scanner looks at every
// cluster of the data region and interprets it as directory data. Directory entries
// found this way are validated only by plausibility checks. Entry groups split by a
// cluster boundary are joined by the checksum of their short name afterwards.
//
// Every recovered file is handed to a Sink. HashSink prints "<hash>  <name>" lines,
// Collector keeps the files in memory and serves them as fs.FS.
package fatrecov

//go:generate go run ./cmd/generate
