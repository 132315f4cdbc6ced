package detect

import (
	"fmt"
	"io"
	"os"
)

// DefaultSampleBudget bounds how many bytes Sample reads when the caller
// does not say otherwise.
const DefaultSampleBudget = 1 << 20 // 1 MiB

// Sampling distribution for StrategicSample, as fractions of the budget.
const (
	headFraction        = 0.35
	tailFraction        = 0.15
	middleChunkFraction = 0.05
)

// Sample reads at most budget bytes from the start of path. It opens the
// file itself so it never disturbs a read position shared with the
// conversion pass.
func Sample(path string, budget int) ([]byte, error) {
	if budget <= 0 {
		budget = DefaultSampleBudget
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample source: %w", err)
	}
	defer f.Close()

	buf := make([]byte, budget)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return buf[:n], nil
}

// StrategicSample reads at most budget bytes spread across the file: 35%
// from the head, 15% from the tail, and the remainder as small chunks
// distributed through the middle. Files that fit in the budget are read
// whole. Sampling the tail catches encodings that only diverge from ASCII
// deep into a large file, which a pure prefix sample misses.
func StrategicSample(path string, budget int) ([]byte, error) {
	if budget <= 0 {
		budget = DefaultSampleBudget
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample source: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat sample source: %w", err)
	}
	size := info.Size()
	if size <= int64(budget) {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read sample: %w", err)
		}
		return data, nil
	}

	headSize := int(float64(budget) * headFraction)
	tailSize := int(float64(budget) * tailFraction)
	middleTotal := budget - headSize - tailSize
	chunkSize := int(float64(budget) * middleChunkFraction)
	if chunkSize < 1 {
		chunkSize = 1
	}
	chunks := (middleTotal + chunkSize - 1) / chunkSize

	out := make([]byte, 0, budget)

	head := make([]byte, headSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read sample head: %w", err)
	}
	out = append(out, head[:n]...)

	middleStart := int64(headSize)
	middleEnd := size - int64(tailSize)
	middleLen := middleEnd - middleStart
	if middleLen > 0 && chunks > 0 {
		buf := make([]byte, chunkSize)
		for i := 0; i < chunks; i++ {
			pos := middleStart + middleLen*int64(i)/int64(chunks)
			want := chunkSize
			if remain := middleEnd - pos; int64(want) > remain {
				want = int(remain)
			}
			if want <= 0 {
				continue
			}
			n, err := f.ReadAt(buf[:want], pos)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("read sample chunk: %w", err)
			}
			out = append(out, buf[:n]...)
		}
	}

	tail := make([]byte, tailSize)
	n, err = f.ReadAt(tail, size-int64(tailSize))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read sample tail: %w", err)
	}
	out = append(out, tail[:n]...)

	return out, nil
}
