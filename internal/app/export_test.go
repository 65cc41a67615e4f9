package app

// IsRefChange exposes isRefChange for testing.
var IsRefChange = isRefChange

// WatchPaths exposes watchPaths for testing.
var WatchPaths = watchPaths
