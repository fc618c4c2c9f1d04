package value

import (
	"bytes"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// RemoteID идентификатор сущности маркетплейса. API отдаёт его то строкой, то
// числом, поэтому храним как строку.
type RemoteID string

func (id RemoteID) String() string {
	return string(id)
}

func (id *RemoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err //nolint:wrapcheck
		}

		*id = RemoteID(s)

		return nil
	}

	*id = RemoteID(data)

	return nil
}

func (id RemoteID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}
