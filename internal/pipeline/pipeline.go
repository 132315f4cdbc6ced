package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofrs/flock"

	"charstream/internal/charset"
	"charstream/internal/detect"
	"charstream/internal/fileutil"
	"charstream/internal/logging"
	"charstream/internal/stream"
)

// ErrConversion marks failures the replacement policy cannot absorb, such
// as codec state errors. Ordinary invalid bytes never raise it; they are
// substituted and counted instead.
var ErrConversion = errors.New("conversion failed")

// ErrLocked is returned when another process holds the in-place rewrite
// lock for the destination.
var ErrLocked = errors.New("destination is locked by another process")

// Stats summarizes one conversion for diagnostics. Replacement counts are
// informational; they never constitute failure on their own.
type Stats struct {
	SourceEncoding     string       `json:"source_encoding"`
	TargetEncoding     string       `json:"target_encoding"`
	Confidence         float64      `json:"confidence"`
	Newlines           stream.Style `json:"newlines,omitempty"`
	BytesIn            int64        `json:"bytes_in"`
	BytesOut           int64        `json:"bytes_out"`
	DecodeReplacements int64        `json:"decode_replacements"`
	EncodeReplacements int64        `json:"encode_replacements"`
}

// Detect samples path and reports its encoding, confidence, and newline
// style. The sample is read through a dedicated file handle; the
// conversion pass, if any, opens the file again itself.
func Detect(path string, opts ...Option) (detect.Result, error) {
	o := buildOptions(opts)
	sample, err := readSample(path, o)
	if err != nil {
		return detect.Result{}, err
	}
	result := detect.Detect(sample)
	o.Logger.Debug("detection complete",
		logging.String("path", path),
		logging.String("encoding", result.Encoding),
		logging.Float64("confidence", result.Confidence),
		logging.Bool("bom", result.BOMPresent),
	)
	return result, nil
}

// Convert decodes path and returns its content as UTF-8 text regardless
// of target; the re-encode to the target still runs so Stats reports the
// output size and replacement counts the file-writing paths would see.
// The source encoding is detected unless WithSourceEncoding overrides it.
// Memory grows with the output size; use ConvertFile for large inputs.
func Convert(ctx context.Context, path, to string, opts ...Option) (string, Stats, error) {
	var out strings.Builder
	stats, err := run(ctx, runSpec{
		source:   path,
		target:   to,
		textSink: func(s string) error { out.WriteString(s); return nil },
	}, buildOptions(opts))
	if err != nil {
		return "", stats, err
	}
	return out.String(), stats, nil
}

// ConvertFile converts src into dst with the atomic temp-and-rename
// commit. dst may equal src for an in-place re-encode.
func ConvertFile(ctx context.Context, src, dst, to string, opts ...Option) (Stats, error) {
	return writeThroughTemp(ctx, runSpec{source: src, target: to}, dst, buildOptions(opts))
}

// Normalize rewrites path in place, converting it to the target encoding
// and newline convention. An empty newlineStyle keeps whatever style
// detection reports, which makes "re-encode only" a valid call. The
// rewrite is all-or-nothing: on any failure the original file is
// untouched and no temp artifact remains at the destination path.
func Normalize(ctx context.Context, path, to, newlineStyle string, opts ...Option) (Stats, error) {
	o := buildOptions(opts)

	spec := runSpec{source: path, target: to}
	if newlineStyle != "" {
		style, err := stream.ParseStyle(newlineStyle)
		if err != nil {
			return Stats{}, err
		}
		spec.newlines = &style
	}

	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return Stats{}, fmt.Errorf("acquire rewrite lock: %w", err)
	}
	if !locked {
		return Stats{}, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() {
		_ = lock.Unlock()
		fileutil.Discard(lockPath)
	}()

	return writeThroughTemp(ctx, spec, path, o)
}

// runSpec describes one streaming run before codecs are resolved. sink
// receives target-encoded bytes; textSink receives the decoded and
// normalized UTF-8 text before re-encoding. Either may be nil.
type runSpec struct {
	source   string
	target   string        // target encoding name; empty means utf-8
	newlines *stream.Style // nil skips the normalizer stage
	sink     func([]byte) error
	textSink func(string) error
}

func readSample(path string, o Options) ([]byte, error) {
	if o.Strategic {
		return detect.StrategicSample(path, o.SampleBudget)
	}
	return detect.Sample(path, o.SampleBudget)
}

// validateEncodings rejects unresolvable encoding names before any file
// is opened or created.
func validateEncodings(spec runSpec, o Options) error {
	target := spec.target
	if target == "" {
		target = "utf-8"
	}
	if _, err := charset.Resolve(target); err != nil {
		return err
	}
	if o.SourceEncoding != "" {
		if _, err := charset.Resolve(o.SourceEncoding); err != nil {
			return err
		}
	}
	return nil
}

// writeThroughTemp runs the pipeline into a temp sibling of dst and
// commits it atomically on success.
func writeThroughTemp(ctx context.Context, spec runSpec, dst string, o Options) (Stats, error) {
	if err := validateEncodings(spec, o); err != nil {
		return Stats{}, err
	}

	temp, err := fileutil.CreateTempSibling(dst)
	if err != nil {
		return Stats{}, err
	}
	tempPath := temp.Name()

	w := bufio.NewWriterSize(temp, o.ChunkSize)
	spec.sink = func(p []byte) error {
		_, err := w.Write(p)
		return err
	}

	stats, runErr := run(ctx, spec, o)
	if runErr == nil {
		runErr = w.Flush()
	}
	if runErr == nil {
		runErr = temp.Sync()
	}
	if closeErr := temp.Close(); runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		fileutil.Discard(tempPath)
		return stats, runErr
	}

	if err := fileutil.Commit(tempPath, dst); err != nil {
		return stats, err
	}
	o.Logger.Debug("committed output",
		logging.String("destination", dst),
		logging.Int64("bytes_out", stats.BytesOut),
	)
	return stats, nil
}

// run drives read, decode, normalize, encode, and sink until the source is
// exhausted, then flushes every stage with a final zero-length call.
func run(ctx context.Context, spec runSpec, o Options) (Stats, error) {
	var stats Stats

	targetName := spec.target
	if targetName == "" {
		targetName = "utf-8"
	}
	targetCodec, err := charset.Resolve(targetName)
	if err != nil {
		return stats, err
	}
	stats.TargetEncoding = targetCodec.Name

	var detection detect.Result
	if o.SourceEncoding != "" {
		codec, err := charset.Resolve(o.SourceEncoding)
		if err != nil {
			return stats, err
		}
		detection = detect.Result{Encoding: codec.Name, Confidence: 1.0}
	} else {
		sample, err := readSample(spec.source, o)
		if err != nil {
			return stats, err
		}
		detection = detect.Detect(sample)
	}
	sourceCodec, err := charset.Resolve(detection.Encoding)
	if err != nil {
		return stats, err
	}
	stats.SourceEncoding = sourceCodec.Name
	stats.Confidence = detection.Confidence
	stats.Newlines = detection.Newlines

	f, err := os.Open(spec.source)
	if err != nil {
		return stats, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	decoder := stream.NewDecoder(sourceCodec.NewDecoder(), o.ChunkSize)
	encoder := stream.NewEncoder(targetCodec.NewEncoder(), o.ChunkSize)
	var normalizer *stream.Normalizer
	if spec.newlines != nil {
		normalizer = stream.NewNormalizer(*spec.newlines)
		stats.Newlines = *spec.newlines
	}

	buf := make([]byte, o.ChunkSize)
	var head []byte
	headDone := false
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n, readErr := f.Read(buf)
		if readErr != nil && readErr != io.EOF {
			return stats, fmt.Errorf("read source: %w", readErr)
		}
		last := readErr == io.EOF

		chunk := buf[:n]
		stats.BytesIn += int64(n)
		if !headDone {
			// Reads smaller than a byte-order mark would split it, so
			// the head is held back until a full mark could have arrived.
			head = append(head, chunk...)
			if len(head) < detect.MaxBOMBytes && !last {
				continue
			}
			chunk = head[bomLength(sourceCodec.Name, head):]
			headDone = true
		}

		text, err := decoder.Decode(chunk, last)
		if err != nil {
			return stats, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		if normalizer != nil {
			text = normalizer.Normalize(text, last)
		}
		if spec.textSink != nil && len(text) > 0 {
			if err := spec.textSink(text); err != nil {
				return stats, fmt.Errorf("write output: %w", err)
			}
		}
		encoded, err := encoder.Encode(text, last)
		if err != nil {
			return stats, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		if len(encoded) > 0 {
			if spec.sink != nil {
				if err := spec.sink(encoded); err != nil {
					return stats, fmt.Errorf("write output: %w", err)
				}
			}
			stats.BytesOut += int64(len(encoded))
		}

		if last {
			break
		}
	}

	stats.DecodeReplacements = decoder.Replacements()
	stats.EncodeReplacements = encoder.Replacements()
	if stats.DecodeReplacements > 0 || stats.EncodeReplacements > 0 {
		o.Logger.Debug("lossy conversion",
			logging.String("source", spec.source),
			logging.Int64("decode_replacements", stats.DecodeReplacements),
			logging.Int64("encode_replacements", stats.EncodeReplacements),
		)
	}
	return stats, nil
}

// bomLength returns how many leading bytes to drop when chunk starts with
// a byte-order mark the source encoding accounts for. The mark is
// metadata, not content; dropping it before the decoder keeps output
// clean for every target encoding.
func bomLength(sourceEncoding string, chunk []byte) int {
	bomEncoding, length, ok := detect.DetectBOM(chunk)
	if !ok {
		return 0
	}
	switch sourceEncoding {
	case "utf-8", "utf-8-bom":
		if bomEncoding == "utf-8" {
			return length
		}
	case "utf-16", "utf-16le", "utf-16be":
		if bomEncoding == "utf-16le" || bomEncoding == "utf-16be" {
			return length
		}
	case "utf-32le", "utf-32be":
		if bomEncoding == sourceEncoding {
			return length
		}
	}
	return 0
}
