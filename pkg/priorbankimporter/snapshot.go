package priorbankimporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bcaldwell/priorbank/pkg/priorbank"
)

// Snapshot holds the card list and card description responses of one sync.
type Snapshot struct {
	Cards     []priorbank.Card
	CardDescs []priorbank.CardDesc
}

// {"success":true,"result":[...]}
type apiResponse[T any] struct {
	Success bool `json:"success"`
	Result  []T  `json:"result"`
}

func LoadSnapshot(cardsPath, cardDescPath string) (*Snapshot, error) {
	cards, err := readResponse[priorbank.Card](cardsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}

	cardDescs, err := readResponse[priorbank.CardDesc](cardDescPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read card descriptions: %w", err)
	}

	return &Snapshot{Cards: cards, CardDescs: cardDescs}, nil
}

func readResponse[T any](filename string) ([]T, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return decodeResponse[T](raw)
}

// decodeResponse accepts either the api envelope or a bare result array.
func decodeResponse[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var result []T
		err := json.Unmarshal(raw, &result)
		return result, err
	}

	var response apiResponse[T]
	err := json.Unmarshal(raw, &response)
	if err != nil {
		return nil, err
	}

	if !response.Success {
		return nil, fmt.Errorf("response was not successful")
	}

	return response.Result, nil
}
