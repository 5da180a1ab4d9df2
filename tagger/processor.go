package tagger

import "github.com/grailbio/base/traverse"

// TagAll applies Tag to every read using up to parallelism concurrent
// workers and returns the outcomes in input order: out[i] corresponds
// to reads[i] for every pool size, regardless of completion order.
// Each worker owns a contiguous index range of the output slice, so no
// reassembly step is needed and no state is shared beyond the read-only
// dictionary.
func (t *Tagger) TagAll(reads []string, parallelism int) []TagSet {
	if parallelism < 1 {
		parallelism = 1
	}
	out := make([]TagSet, len(reads))
	// Tag cannot fail, so the traversal never returns an error.
	_ = traverse.Each(parallelism, func(job int) error {
		begin := job * len(reads) / parallelism
		end := (job + 1) * len(reads) / parallelism
		for i := begin; i < end; i++ {
			out[i] = t.Tag(reads[i])
		}
		return nil
	})
	return out
}
