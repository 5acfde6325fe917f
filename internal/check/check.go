// Package check classifies bookmarked references against the asset
// registry using a small worker pool.
package check

import (
	"path"
	"strings"
	"sync"

	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/model"
)

// Status represents the health of one bookmarked reference.
type Status int

const (
	OK      Status = iota // resolves to an existing asset
	Missing               // points into the project but nothing is there
	Invalid               // empty, absolute or escaping the project
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result holds the check result for a single entry.
type Result struct {
	Entry  model.Entry
	Status Status
	Asset  asset.Asset // set when Status is OK
}

// Summary counts results by status.
type Summary struct {
	OK      int
	Missing int
	Invalid int
}

// ProgressFunc is called after each entry is checked.
// completed is the number of entries checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Entries checks all entries concurrently and returns results in entry
// order. reg must be safe for concurrent use.
func Entries(entries []model.Entry, reg asset.Registry, concurrency int, onProgress ProgressFunc) []Result {
	if len(entries) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(entries))
	jobs := make(chan int, len(entries))
	var wg sync.WaitGroup

	// Progress tracking
	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkEntry(entries[idx], reg)

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(entries))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func checkEntry(e model.Entry, reg asset.Registry) Result {
	result := Result{Entry: e}
	if a, ok := e.Asset(reg); ok {
		result.Status = OK
		result.Asset = a
		return result
	}
	if inProject(e.Ref) {
		result.Status = Missing
	} else {
		result.Status = Invalid
	}
	return result
}

// inProject reports whether a reference names a path below the project root.
func inProject(ref asset.Ref) bool {
	if ref == "" || path.IsAbs(string(ref)) {
		return false
	}
	clean := path.Clean(string(ref))
	return clean != "." && clean != ".." && !strings.HasPrefix(clean, "../")
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case OK:
			s.OK++
		case Missing:
			s.Missing++
		case Invalid:
			s.Invalid++
		}
	}
	return s
}

// Failed returns the results that are not OK, in entry order.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status != OK {
			out = append(out, r)
		}
	}
	return out
}
