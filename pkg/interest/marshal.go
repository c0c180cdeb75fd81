package interest

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes each row as an object keyed by keyword, with the
// keyword keys in request order after region and geo_code.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"keywords":`)
	keywords := t.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	if err := writeJSONValue(&buf, keywords); err != nil {
		return nil, err
	}
	if t.HasGeoCode {
		buf.WriteString(`,"has_geo_code":true`)
	}
	buf.WriteString(`,"rows":[`)
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"region":`)
		if err := writeJSONValue(&buf, row.Region); err != nil {
			return nil, err
		}
		if t.HasGeoCode {
			buf.WriteString(`,"geo_code":`)
			if err := writeJSONValue(&buf, row.GeoCode); err != nil {
				return nil, err
			}
		}
		for j, kw := range t.Keywords {
			buf.WriteByte(',')
			if err := writeJSONValue(&buf, kw); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(row.Values[j]))
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// MarshalYAML mirrors MarshalJSON: rows are mappings keyed by keyword.
func (t *Table) MarshalYAML() (interface{}, error) {
	keywords := &yaml.Node{Kind: yaml.SequenceNode}
	for _, kw := range t.Keywords {
		keywords.Content = append(keywords.Content, yamlString(kw))
	}

	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		m.Content = append(m.Content, yamlString("region"), yamlString(row.Region))
		if t.HasGeoCode {
			m.Content = append(m.Content, yamlString("geo_code"), yamlString(row.GeoCode))
		}
		for j, kw := range t.Keywords {
			m.Content = append(m.Content, yamlString(kw), &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!int",
				Value: strconv.Itoa(row.Values[j]),
			})
		}
		rows.Content = append(rows.Content, m)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content, yamlString("keywords"), keywords)
	if t.HasGeoCode {
		doc.Content = append(doc.Content, yamlString("has_geo_code"),
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	doc.Content = append(doc.Content, yamlString("rows"), rows)
	return doc, nil
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
