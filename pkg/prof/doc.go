// Package prof captures runtime profiles around a benchmark run.
//
// It is compiled in only with the "profile" build tag:
//
//	go build -tags profile ./examples/sdma-bench
//
// Without the tag, [Start] returns a session that records nothing, so
// callers can leave profiling flags wired in production builds.
//
// A session starts CPU profiling (if requested) when it begins and writes
// the snapshot profiles when it stops:
//
//	s, err := prof.Start(prof.Options{CPU: "cpu.prof", Heap: "heap.prof"})
//	if err != nil {
//	    return err
//	}
//	defer s.Stop()
//
// Block and mutex contention are sampled only while a session that asks for
// them is active; the previous rates are restored by [Session.Stop].
package prof
