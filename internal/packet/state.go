package packet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"RedPacket/internal/model"
)

// LoadState reads packets from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*model.PacketState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.PacketState{}, nil
		}
		return nil, fmt.Errorf("read packet state: %w", err)
	}
	var state model.PacketState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode packet state: %w", err)
	}
	return &state, nil
}

// SaveState writes packets to a JSON file, creating its directory if needed.
func SaveState(filePath string, state *model.PacketState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
