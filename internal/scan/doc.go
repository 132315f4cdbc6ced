// Package scan walks directory trees and detects the encoding of every
// regular file, fanning the work out across a bounded worker pool. Results
// can be served from and recorded to a scancache store so repeated scans
// only touch files that changed.
package scan
