package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jakechorley/health-ops/pkg/core/model"
)

// EntitySchema describes one workforce entity and its fields
type EntitySchema struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// DescribeSchema lists the workforce entities exposed by the engine.
// Field names are the JSON names; list fields end in [] and optional ones in ?.
func DescribeSchema() []EntitySchema {
	return []EntitySchema{
		describeEntity("Location", model.Location{}),
		describeEntity("Caregiver", model.Caregiver{}),
		describeEntity("Shift", model.Shift{}),
		describeEntity("ComplianceItem", model.ComplianceItem{}),
	}
}

// FormatSchema renders the schema as one line per entity
func FormatSchema(entities []EntitySchema) string {
	var sb strings.Builder
	sb.WriteString("Entities:\n")
	for _, e := range entities {
		fmt.Fprintf(&sb, "- %s(%s)\n", e.Name, strings.Join(e.Fields, ", "))
	}
	return sb.String()
}

func describeEntity(name string, v any) EntitySchema {
	t := reflect.TypeOf(v)
	fields := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == "" || tag == "-" {
			continue
		}
		if f.Type.Kind() == reflect.Slice {
			tag += "[]"
		}
		if strings.Contains(opts, "omitempty") {
			tag += "?"
		}
		fields = append(fields, tag)
	}
	return EntitySchema{Name: name, Fields: fields}
}
