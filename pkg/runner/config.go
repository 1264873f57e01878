package runner

import (
	"os"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/json"
)

// LoadJSON reads the file at path and returns its contents as a raw JSON
// value. An unreadable path or malformed content is a config error, which
// aborts the current command.
func LoadJSON(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConfig, "failed to read config file").
			WithDetail("path", path)
	}
	if !json.Valid(data) {
		return nil, airbyteerrors.New(airbyteerrors.ErrorTypeConfig, "config file is not valid JSON").
			WithDetail("path", path)
	}
	return json.RawMessage(data), nil
}

// LoadTyped reads the file at path and deserializes it into v. Content that
// does not match the requested shape is a config error.
func LoadTyped(path string, v interface{}) error {
	data, err := LoadJSON(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConfig, "config file does not match expected shape").
			WithDetail("path", path)
	}
	return nil
}
