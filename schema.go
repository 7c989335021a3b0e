package catalog

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/campushq/catalog/internal/domain/catalog/field"
	"github.com/campushq/catalog/internal/domain/record"
)

const tagKey = "catalog"

var timeType = reflect.TypeOf(time.Time{})

// schemaMeta holds parsed struct tag metadata, cached per Dataset.
type schemaMeta struct {
	typ reflect.Type // struct type for reconstruction

	// Field index in the struct for the id.
	idIdx int

	// Declared fields for catalog creation.
	fields []field.Field

	// Mapping from struct field index → record field name, per value kind.
	tagFields     []fieldMapping
	numericFields []fieldMapping
	dateFields    []fieldMapping
	listFields    []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts catalog struct tag metadata.
//
// Tag syntax: `catalog:"<field-name>[,modifier]"`. The field type is
// inferred from the Go type: string → tag, numeric kinds → numeric,
// time.Time → date, []string → list. Modifiers:
//
//	id        marks the record identifier (string, required)
//	search    marks the field as free-text searchable (string or []string)
//	latest    binds the "latest" sort key (time.Time)
//	popular   binds the "popular" sort key (numeric)
//	trending  binds the "trending" sort key (numeric)
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("catalog: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("catalog: no field with `catalog:\"...,id\"` tag in %s", t)
	}
	return meta, nil
}

// applyTag processes a single struct field's catalog tag.
func applyTag(meta *schemaMeta, idx int, sf reflect.StructField, tag string) error {
	parts := strings.SplitN(tag, ",", 2)
	name := parts[0]
	modifier := ""
	if len(parts) == 2 {
		modifier = parts[1]
	}

	if modifier == "id" {
		if meta.idIdx != -1 {
			return fmt.Errorf("catalog: duplicate id tag on field %s", sf.Name)
		}
		if sf.Type.Kind() != reflect.String {
			return fmt.Errorf("catalog: id field %s must be a string", sf.Name)
		}
		meta.idIdx = idx
		return nil
	}

	ft, err := inferFieldType(sf.Type)
	if err != nil {
		return fmt.Errorf("catalog: field %s: %w", sf.Name, err)
	}

	searchable := false
	sortRole := ""
	switch modifier {
	case "":
	case "search":
		searchable = true
	case field.SortLatest, field.SortPopular, field.SortTrending:
		sortRole = modifier
	default:
		return fmt.Errorf("catalog: unknown modifier %q on field %s", modifier, sf.Name)
	}

	df, err := field.New(name, ft, searchable, sortRole)
	if err != nil {
		return fmt.Errorf("catalog: field %s: %w", sf.Name, err)
	}
	meta.fields = append(meta.fields, df)

	mapping := fieldMapping{structIdx: idx, name: name}
	switch ft {
	case field.Tag:
		meta.tagFields = append(meta.tagFields, mapping)
	case field.Numeric:
		meta.numericFields = append(meta.numericFields, mapping)
	case field.Date:
		meta.dateFields = append(meta.dateFields, mapping)
	case field.List:
		meta.listFields = append(meta.listFields, mapping)
	}
	return nil
}

// inferFieldType maps a Go type onto a catalog field type.
func inferFieldType(t reflect.Type) (field.Type, error) {
	if t == timeType {
		return field.Date, nil
	}
	switch t.Kind() {
	case reflect.String:
		return field.Tag, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return field.Numeric, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return field.List, nil
		}
	}
	return "", fmt.Errorf("unsupported type %s", t)
}

// toRecord converts a typed struct to a Record using schema metadata.
func (m *schemaMeta) toRecord(item any) (record.Record, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	id := v.Field(m.idIdx).String()

	tags := make(map[string]string, len(m.tagFields))
	for _, tf := range m.tagFields {
		tags[tf.name] = v.Field(tf.structIdx).String()
	}

	numerics := make(map[string]float64, len(m.numericFields))
	for _, nf := range m.numericFields {
		numerics[nf.name] = toFloat64(v.Field(nf.structIdx))
	}

	dates := make(map[string]time.Time, len(m.dateFields))
	for _, df := range m.dateFields {
		dates[df.name], _ = v.Field(df.structIdx).Interface().(time.Time)
	}

	lists := make(map[string][]string, len(m.listFields))
	for _, lf := range m.listFields {
		lists[lf.name], _ = v.Field(lf.structIdx).Interface().([]string)
	}

	return record.New(id, tags, numerics, dates, lists)
}

// fromRecord converts a Record back to a typed struct using schema metadata.
func (m *schemaMeta) fromRecord(rec record.Record) any {
	v := reflect.New(m.typ).Elem()

	v.Field(m.idIdx).SetString(rec.ID())
	for _, tf := range m.tagFields {
		if val, ok := rec.Tag(tf.name); ok {
			v.Field(tf.structIdx).SetString(val)
		}
	}
	for _, nf := range m.numericFields {
		if val, ok := rec.Numeric(nf.name); ok {
			setFloat(v.Field(nf.structIdx), val)
		}
	}
	for _, df := range m.dateFields {
		if val, ok := rec.Date(df.name); ok {
			v.Field(df.structIdx).Set(reflect.ValueOf(val))
		}
	}
	for _, lf := range m.listFields {
		if val, ok := rec.List(lf.name); ok {
			v.Field(lf.structIdx).Set(reflect.ValueOf(val))
		}
	}
	return v.Interface()
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return 0
	}
}

func setFloat(v reflect.Value, f float64) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(f))
	}
}
