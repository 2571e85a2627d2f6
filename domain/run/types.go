package run

import (
	"crypto/sha256"
	"fmt"

	"statlab/domain/core"
)

// RunFingerprint pins down everything that determines a seeded simulation.
// Two runs with the same fingerprint and a non-zero seed produce the same
// distribution.
type RunFingerprint struct {
	Dataset     core.DatasetHash `json:"dataset"`
	Statistic   string           `json:"statistic"`
	Strategy    string           `json:"strategy"`
	Trials      int              `json:"trials"`
	Seed        int64            `json:"seed"`
	Fingerprint core.Hash        `json:"fingerprint"`
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(dataset core.DatasetHash, statistic, strategy string, trials int, seed int64) RunFingerprint {
	return RunFingerprint{
		Dataset:     dataset,
		Statistic:   statistic,
		Strategy:    strategy,
		Trials:      trials,
		Seed:        seed,
		Fingerprint: computeRunFingerprint(dataset, statistic, strategy, trials, seed),
	}
}

// Reproducible reports whether the run used an explicit seed.
func (f RunFingerprint) Reproducible() bool {
	return f.Seed != 0
}

func computeRunFingerprint(dataset core.DatasetHash, statistic, strategy string, trials int, seed int64) core.Hash {
	data := fmt.Sprintf("dataset:%s|statistic:%s|strategy:%s|trials:%d|seed:%d",
		dataset, statistic, strategy, trials, seed)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
