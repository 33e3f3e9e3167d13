package scanner

// ProgressReporter receives scan progress callbacks. Implementations
// must tolerate concurrent OnFileProcessed calls.
type ProgressReporter interface {
	OnDiscoveryStart()
	OnDiscoveryComplete(files int)
	OnFileProcessed(path string)
	OnScanComplete(packages, warnings int)
}

// NoOpProgressReporter ignores all progress events.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryStart()       {}
func (NoOpProgressReporter) OnDiscoveryComplete(int) {}
func (NoOpProgressReporter) OnFileProcessed(string)  {}
func (NoOpProgressReporter) OnScanComplete(int, int) {}
