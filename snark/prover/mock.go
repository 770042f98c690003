package prover

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// PoStType mirrors the original Rust crate's tasks.rs enum. It is only
// ever consumed inside this test double; the core slot state machine
// never parses post_config.
type PoStType string

const (
	PoStTypeWinning PoStType = "Winning"
	PoStTypeWindow  PoStType = "Window"
)

// PoStConfig mirrors original_source/src/tasks.rs's PoStConfig, decoded
// the way the original used serde_json: a JSON object with a sector size,
// challenge/sector counts, a PoSt type, a priority flag, and an API
// version string.
type PoStConfig struct {
	SectorSize     uint64   `json:"sector_size"`
	ChallengeCount int      `json:"challenge_count"`
	SectorCount    int      `json:"sector_count"`
	Type           PoStType `json:"typ"`
	Priority       bool     `json:"priority"`
	APIVersion     string   `json:"api_version"`
}

// Mock is a deterministic Prover test double. It does no real proving: it
// decodes post_config (failing the task if it isn't valid JSON, since a
// real prover would also reject a malformed config), then returns a fixed
// digest of its inputs. Fail, when non-nil, lets a test force a specific
// task into TaskStatus Failed to exercise spec section 7's executor-error
// path.
type Mock struct {
	Fail error
}

func (m *Mock) Prove(ctx context.Context, vanillaProof, pubIn, postConfig []byte, replicasLen uint32) ([]byte, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}

	var cfg PoStConfig
	if len(postConfig) > 0 {
		if err := json.Unmarshal(postConfig, &cfg); err != nil {
			return nil, fmt.Errorf("invalid post_config: %w", err)
		}
	}

	h := sha256.New()
	h.Write(vanillaProof)
	h.Write(pubIn)
	h.Write(postConfig)
	fmt.Fprintf(h, ":%d", replicasLen)
	return h.Sum(nil), nil
}
