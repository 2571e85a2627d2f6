package run

import (
	"fmt"

	"statlab/domain/core"
)

// Manifest records how a simulation was produced so it can be replayed.
type Manifest struct {
	RunID       core.RunID     `json:"run_id"`
	Fingerprint RunFingerprint `json:"fingerprint"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// NewManifest stamps a fingerprint with a run ID and creation time.
func NewManifest(runID core.RunID, fingerprint RunFingerprint) *Manifest {
	return &Manifest{
		RunID:       runID,
		Fingerprint: fingerprint,
		CreatedAt:   core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if m.RunID.IsEmpty() {
		return core.NewInvalidArgument("run_manifest", "run_id cannot be empty")
	}
	if m.Fingerprint.Dataset == "" {
		return core.NewInvalidArgument("run_manifest", "dataset hash cannot be empty")
	}
	if m.Fingerprint.Statistic == "" {
		return core.NewInvalidArgument("run_manifest", "statistic cannot be empty")
	}
	if m.Fingerprint.Trials <= 0 {
		return core.NewInvalidArgumentf("run_manifest", "trials must be positive, got %d", m.Fingerprint.Trials)
	}
	if m.Fingerprint.Fingerprint.IsEmpty() {
		return core.NewInvalidArgument("run_manifest", "fingerprint cannot be empty")
	}
	if m.CreatedAt.IsZero() {
		return core.NewInvalidArgument("run_manifest", "created_at must be set")
	}
	return nil
}

// Summary is a one-line description for reports and logs.
func (m *Manifest) Summary() string {
	seed := "unseeded"
	if m.Fingerprint.Reproducible() {
		seed = fmt.Sprintf("seed %d", m.Fingerprint.Seed)
	}
	return fmt.Sprintf("run %s, %s, fingerprint %s", m.RunID, seed, m.Fingerprint.Fingerprint.Short())
}
