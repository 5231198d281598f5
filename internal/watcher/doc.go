// Package watcher reports changes to a results directory.
//
// A results directory is rewritten by the analysis that produces it:
// data.json is replaced atomically and figure files are rewritten. The
// watcher listens with fsnotify, keeps only the files selected by
// Options.Filter (data.json by default), and coalesces bursts through a
// Debouncer so one dump yields one batch:
//
//	w, err := watcher.New(watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	go func() { _ = w.Start(ctx, "out/results") }()
//	for batch := range w.Events() {
//	    regenerate(batch)
//	}
package watcher
