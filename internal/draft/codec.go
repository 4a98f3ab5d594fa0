package draft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrUnknownCodec = errors.New("unknown codec")

const (
	CodecJSON = "json"
	CodecYAML = "yaml"
	CodecTOML = "toml"
)

// Codec turns the persisted state into bytes and back.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

func Codecs() []string {
	return []string{CodecJSON, CodecYAML, CodecTOML}
}

func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case CodecJSON, "":
		return JSONCodec{}, nil
	case CodecYAML, "yml":
		return YAMLCodec{}, nil
	case CodecTOML:
		return TOMLCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

type JSONCodec struct{} // implements Codec

func (JSONCodec) Name() string                       { return CodecJSON }
func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type YAMLCodec struct{} // implements Codec

func (YAMLCodec) Name() string                       { return CodecYAML }
func (YAMLCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// TOMLCodec has no null, so an absent draft is simply left out of the document.
type TOMLCodec struct{} // implements Codec

func (TOMLCodec) Name() string { return CodecTOML }

func (TOMLCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	// An empty document must still be a non-nil value for NOT NULL columns.
	return append([]byte{}, buf.Bytes()...), nil
}

func (TOMLCodec) Unmarshal(data []byte, v any) error {
	_, err := toml.Decode(string(data), v)
	return err
}
