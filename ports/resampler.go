package ports

import (
	"statlab/domain/sample"
)

// Resampler produces one randomized dataset per call. The returned dataset
// may share a scratch buffer with the resampler and is only valid until the
// next Resample call.
type Resampler[D sample.Dataset] interface {
	// Strategy names the resampling scheme, e.g. "full_shuffle".
	Strategy() string
	// Observed returns the dataset as collected, before any resampling.
	Observed() D
	Resample() D
}
