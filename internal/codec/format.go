package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format string

const (
	JSON Format = "json"
	XML  Format = "xml"
	YAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return XML
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// encode renders doc in the given format. indent selects the human readable
// form used for files; snapshots use the compact one.
func encode(doc *Document, format Format, indent bool) ([]byte, error) {
	switch format {
	case JSON:
		if indent {
			return json.MarshalIndent(doc, "", "  ")
		}
		return json.Marshal(doc)
	case XML:
		var (
			data []byte
			err  error
		)
		if indent {
			data, err = xml.MarshalIndent(doc, "", "  ")
		} else {
			data, err = xml.Marshal(doc)
		}
		if err != nil {
			return nil, err
		}
		return append([]byte(xml.Header), data...), nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// decode parses data in the given format.
func decode(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, doc)
	case XML:
		err = xml.Unmarshal(data, doc)
	case YAML:
		err = yaml.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
