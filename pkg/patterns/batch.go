package patterns

import "sync"

// DefaultWorkers is the worker count for batch extraction.
const DefaultWorkers = 4

// ExtractBatch runs ExtractAll over texts on a bounded worker pool and
// returns results in input order. Extraction holds no mutable shared state
// beyond the compiled-pattern table and the guarded memo cache, so
// per-document jobs are independent.
func (x *Extractor) ExtractBatch(texts []string, workers int) []Result {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(texts) {
		workers = len(texts)
	}

	results := make([]Result, len(texts))
	if len(texts) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = x.ExtractAll(texts[i])
			}
		}()
	}

	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
