package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Tag is a parsed `inspect:"widget,opt,key:value"` struct tag.
//
//	`inspect:"bar,max:200,name:Fullness"`
//	`inspect:"label,fmt:%.1fs"`
//	`inspect:"label,omitzero"`
type Tag struct {
	Widget   Widget
	Name     string  // display name override
	Format   string  // fmt verb for the value
	Max      float32 // full-scale value for bars
	OmitZero bool
}

// ParseTag parses an inspect struct tag. Unknown widgets fall back to
// WidgetAuto and unknown options are ignored.
func ParseTag(raw string) Tag {
	tag := Tag{Max: 1}
	if raw == "" {
		return tag
	}
	widget, opts, _ := strings.Cut(raw, ",")
	tag.Widget = widgetNames[strings.TrimSpace(widget)]

	for _, opt := range strings.Split(opts, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), ":")
		switch key {
		case "name":
			tag.Name = val
		case "fmt":
			tag.Format = val
		case "max":
			if m, err := strconv.ParseFloat(val, 32); err == nil && m > 0 {
				tag.Max = float32(m)
			}
		case "omitzero":
			tag.OmitZero = true
		}
	}
	return tag
}

// Field is one displayable struct field.
type Field struct {
	Name  string
	Value any
	Tag   Tag
}

// ExtractFields lists the exported fields of a struct (or pointer to one)
// in declaration order. Embedded structs are flattened in place.
func ExtractFields(data any) []Field {
	v := reflect.Indirect(reflect.ValueOf(data))
	if v.Kind() != reflect.Struct {
		return nil
	}
	return appendFields(nil, v)
}

func appendFields(fields []Field, v reflect.Value) []Field {
	t := v.Type()
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			fields = appendFields(fields, fv)
			continue
		}

		tag := ParseTag(sf.Tag.Get("inspect"))
		if tag.Widget == WidgetSkip || (tag.OmitZero && fv.IsZero()) {
			continue
		}
		if tag.Widget == WidgetAuto {
			tag.Widget = WidgetLabel
			if fv.Kind() == reflect.Bool {
				tag.Widget = WidgetBool
			}
		}
		name := tag.Name
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, Field{Name: name, Value: fv.Interface(), Tag: tag})
	}
	return fields
}

// FormatValue renders value with format, or with two decimals for floats
// when format is empty.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", value)
	}
	return fmt.Sprint(value)
}

// AsFloat32 converts the numeric kinds used by inspector structs.
func AsFloat32(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case int32:
		return float32(v), true
	case int64:
		return float32(v), true
	case uint32:
		return float32(v), true
	}
	return 0, false
}
