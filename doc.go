// Package madoka implements a Count-Min sketch: a probabilistic frequency
// table that answers "how many times have I seen this key" queries in
// bounded space with one-sided error.
//
// # Overview
//
// A Sketch holds three rows of W cells each. Inserting a key advances the
// minimum cell across the three rows (conservative update); querying a key
// returns that same minimum. In exact mode the error is one-sided: a query
// never undercounts, and it overcounts only when other keys share the
// key's cell in every row. Two cell layouts are
// supported: exact mode stores a plain unsigned counter (1 to 32 bits wide,
// chosen to fit the configured maximum value); approximate mode packs a
// 19-bit floating-point-like code that can represent counts up to 2^45-1,
// trading a small, bounded relative error for a fixed, small cell size
// regardless of how large the true count grows.
//
// # When to Use
//
//   - Streaming cardinality-adjacent workloads: top-K, heavy hitters,
//     frequency-biased caching, where exact per-key counters would not fit
//     in memory.
//   - Workloads where occasional overcounting is tolerable but
//     undercounting is not.
//
// # When NOT to Use
//
//   - You need exact counts for every key and have the memory to store
//     them directly (use a map).
//   - You need to delete or decrement individual keys (not supported;
//     conservative update is one-directional).
//
// # Tradeoffs
//
// Exact mode: counters are precise up to the configured maximum value, at
// the cost of up to 32 bits per cell. Approximate mode: 19 bits per cell
// regardless of magnitude, at the cost of a bounded relative error (on the
// order of 1/2^14 per increment, accumulating through a probabilistic
// advance rather than a deterministic one).
//
// # Basic Usage
//
//	s, err := madoka.Create(1<<20, 0, "", backing.Anonymous, 0)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.Inc([]byte("alice"))
//	s.Inc([]byte("alice"))
//	s.Add([]byte("bob"), 5)
//
//	count := s.Get([]byte("alice")) // 2
//
//	if err := s.Save("sketch.bin", backing.Create|backing.Truncate); err != nil {
//	    return err
//	}
//
// # Performance Characteristics
//
// Every operation (Get/Set/Inc/Add) does one 128-bit hash and at most three
// packed-cell reads plus up to three packed-cell writes: O(1) independent
// of W. Construction, Open, Load, and Save are the only operations that
// touch the filesystem or perform a memory-mapping syscall.
package madoka
