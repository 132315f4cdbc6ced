// Command charstream detects, converts, and normalizes text file
// encodings from the command line.
package main
