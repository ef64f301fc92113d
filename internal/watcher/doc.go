// Package watcher reports settled changes to a fixed set of result files.
//
// The parent directory of every file is watched with fsnotify, so files
// that are replaced (written to a temp file and renamed, or deleted and
// recreated by a new JMH run) keep being tracked. Bursts of events are
// debounced into one batch per quiet period.
//
// Usage:
//
//	w, err := watcher.New(watcher.DefaultOptions(), basePath, prPath)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	go w.Start(ctx)
//
//	for batch := range w.Events() {
//	    // re-run the comparison
//	}
package watcher
