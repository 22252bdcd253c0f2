package model

// FlowState represents the stage of a download and unpack flow
type FlowState string

const (
	// FlowIdle means no download has been started yet
	FlowIdle FlowState = "Idle"

	// FlowDownloading means the file body is being streamed to disk
	FlowDownloading FlowState = "Downloading"

	// FlowDownloadFailed means the download ended with an error
	FlowDownloadFailed FlowState = "DownloadFailed"

	// FlowDownloaded means the file is on disk and the unpack decision is pending
	FlowDownloaded FlowState = "Downloaded"

	// FlowUnpacking means the unpack service is being driven
	FlowUnpacking FlowState = "Unpacking"

	// FlowDone means the flow finished without an unpack step
	FlowDone FlowState = "Done"

	// FlowUnpackSkipped means the unpack service was not reachable
	FlowUnpackSkipped FlowState = "UnpackSkipped"

	// FlowUnpackWarning means the unpack service answered with an unexpected status
	FlowUnpackWarning FlowState = "UnpackWarning"

	// FlowUnpackError means talking to the unpack service failed
	FlowUnpackError FlowState = "UnpackError"

	// FlowUnpackOk means the export request was accepted
	FlowUnpackOk FlowState = "UnpackOk"
)

// String returns the string representation of FlowState
func (fs FlowState) String() string {
	return string(fs)
}

// IsActive returns true while background work is running for the flow
func (fs FlowState) IsActive() bool {
	return fs == FlowDownloading || fs == FlowUnpacking
}

// IsFinished returns true if the flow reached a terminal state
func (fs FlowState) IsFinished() bool {
	switch fs {
	case FlowDownloadFailed, FlowDone, FlowUnpackSkipped, FlowUnpackWarning, FlowUnpackError, FlowUnpackOk:
		return true
	}
	return false
}
